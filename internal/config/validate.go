package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validatorOnce sync.Once
	structRules   *validator.Validate
)

func rules() *validator.Validate {
	validatorOnce.Do(func() {
		structRules = validator.New(validator.WithRequiredStructEnabled())
		structRules.RegisterTagNameFunc(tomlName)
	})
	return structRules
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := rules().Struct(c); err != nil {
		var invalid validator.ValidationErrors
		if errors.As(err, &invalid) && len(invalid) > 0 {
			return describe(invalid[0])
		}
		return fmt.Errorf("validate config: %w", err)
	}
	if err := c.validateIndent(); err != nil {
		return err
	}
	return c.validatePaths()
}

func (c *Config) validateIndent() error {
	if strings.Trim(c.Build.JSONIndent, " \t") != "" {
		return errors.New("build.json_indent may only contain spaces and tabs")
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.SourceDir == c.Paths.BuildDir {
		return fmt.Errorf("paths.build_dir must differ from paths.source_dir (%s)", c.Paths.SourceDir)
	}
	return nil
}

func describe(fe validator.FieldError) error {
	_, field, ok := strings.Cut(fe.Namespace(), ".")
	if !ok {
		field = fe.Field()
	}
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s must be set", field)
	case "oneof":
		return fmt.Errorf("%s must be one of %s (got %q)", field, strings.ReplaceAll(fe.Param(), " ", ", "), fe.Value())
	default:
		return fmt.Errorf("%s is invalid (%s)", field, fe.Tag())
	}
}

func tomlName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("toml"), ",")
	if name == "" {
		return field.Name
	}
	return name
}
