package config

const (
	defaultSourceDir  = "src"
	defaultBuildDir   = "build"
	defaultJSONIndent = "  "
	defaultLogFormat  = "console"
	defaultLogLevel   = "info"

	// ledgerDirName holds bookkeeping inside the build tree.
	ledgerDirName  = ".ankideck"
	ledgerFileName = "ledger.db"

	envSourceDir = "ANKIDECK_SOURCE_DIR"
	envBuildDir  = "ANKIDECK_BUILD_DIR"
)

// Default returns a Config populated with repository defaults. Paths are
// left relative; Load expands them against the working directory.
func Default() Config {
	return Config{
		Paths: Paths{
			SourceDir: defaultSourceDir,
			BuildDir:  defaultBuildDir,
		},
		Build: Build{
			JSONIndent: defaultJSONIndent,
		},
		Ledger: Ledger{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
