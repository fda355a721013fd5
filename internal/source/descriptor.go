package source

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"ankideck/internal/deckerr"
)

// DefaultConfigName names the configuration when a descriptor leaves it out.
const DefaultConfigName = "Default"

// Descriptor is the per-deck build.json.
type Descriptor struct {
	Name       string   `json:"name" validate:"required"`
	ModelName  string   `json:"model_name,omitempty"`
	ConfigName string   `json:"config_name,omitempty"`
	UUIDs      UUIDs    `json:"uuids"`
	Fields     []string `json:"fields" validate:"min=1,unique,dive,required"`
	Templates  []string `json:"templates" validate:"min=1,unique,dive,required"`
}

// UUIDs are the stable base identifiers of a deck.
type UUIDs struct {
	Deck   string `json:"deck" validate:"required"`
	Config string `json:"config" validate:"required"`
	Model  string `json:"model" validate:"required"`
}

// EffectiveModelName returns the model name, defaulting to the deck name.
func (d Descriptor) EffectiveModelName() string {
	if strings.TrimSpace(d.ModelName) != "" {
		return d.ModelName
	}
	return d.Name
}

// EffectiveConfigName returns the configuration name, defaulting to
// DefaultConfigName.
func (d Descriptor) EffectiveConfigName() string {
	if strings.TrimSpace(d.ConfigName) != "" {
		return d.ConfigName
	}
	return DefaultConfigName
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func descriptorValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Validate checks the descriptor's required keys.
func (d Descriptor) Validate() error {
	err := descriptorValidator().Struct(d)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return deckerr.Wrap(deckerr.ErrValidation, "descriptor", "validate", "", err)
	}
	problems := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		problems = append(problems, describeFieldError(fe))
	}
	return deckerr.Wrap(deckerr.ErrValidation, "descriptor", "validate", strings.Join(problems, "; "), nil)
}

func describeFieldError(fe validator.FieldError) string {
	field := descriptorKey(fe.Namespace())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s needs at least %s entry", field, fe.Param())
	case "unique":
		return fmt.Sprintf("%s contains duplicates", field)
	default:
		return fmt.Sprintf("%s failed %s", field, fe.Tag())
	}
}

var descriptorKeys = strings.NewReplacer(
	"Descriptor.", "",
	"UUIDs.", "uuids.",
	"Name", "name",
	"Deck", "deck",
	"Config", "config",
	"Model", "model",
	"Fields", "fields",
	"Templates", "templates",
)

// descriptorKey maps a validator namespace such as Descriptor.UUIDs.Deck
// onto the JSON key path uuids.deck.
func descriptorKey(namespace string) string {
	return descriptorKeys.Replace(namespace)
}
