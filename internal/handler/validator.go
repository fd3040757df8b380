package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/osse101/IdleGarden_Go/internal/domain"
)

// Validator wraps the validator instance
type Validator struct {
	validate *validator.Validate
}

var validate *Validator

// InitValidator initializes the global validator
func InitValidator() {
	v := validator.New()

	_ = v.RegisterValidation("asset", validateAsset)
	_ = v.RegisterValidation("harvest_mode", validateHarvestMode)
	_ = v.RegisterValidation("timed_kind", validateTimedKind)

	validate = &Validator{validate: v}
}

// GetValidator returns the global validator instance
func GetValidator() *Validator {
	if validate == nil {
		InitValidator()
	}
	return validate
}

// ValidateStruct validates a struct using tags
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.validate.Struct(s)
}

// ValidateVar validates a single value against a tag
func (v *Validator) ValidateVar(field interface{}, tag string) error {
	return v.validate.Var(field, tag)
}

// FormatValidationError formats validation errors into a field to message map
// without leaking struct names.
func FormatValidationError(err error) map[string]string {
	if err == nil {
		return nil
	}

	errs := make(map[string]string)

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		errs["error"] = "Invalid request format"
		return errs
	}

	for _, e := range validationErrors {
		field := strings.ToLower(e.Field())
		switch e.Tag() {
		case "required":
			errs[field] = "This field is required"
		case "asset":
			errs[field] = "Unknown asset type"
		case "harvest_mode":
			errs[field] = fmt.Sprintf("Must be %s or %s", domain.HarvestFull, domain.HarvestHalf)
		case "timed_kind":
			errs[field] = "Must be weather, seasonal or server"
		case "max":
			errs[field] = fmt.Sprintf("Must be at most %s", e.Param())
		case "min", "gte":
			errs[field] = fmt.Sprintf("Must be at least %s", e.Param())
		case "gt":
			errs[field] = fmt.Sprintf("Must be greater than %s", e.Param())
		case "excludesall":
			errs[field] = "Contains invalid characters"
		default:
			errs[field] = "Invalid value"
		}
	}

	return errs
}

func validateAsset(fl validator.FieldLevel) bool {
	t, err := domain.ParseAssetType(fl.Field().String())
	return err == nil && t != domain.AssetUnknown
}

// empty means full; handled by the request default
func validateHarvestMode(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "", domain.HarvestFull, domain.HarvestHalf:
		return true
	}
	return false
}

func validateTimedKind(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case domain.TimedKindWeather, domain.TimedKindSeasonal, domain.TimedKindServer:
		return true
	}
	return false
}
