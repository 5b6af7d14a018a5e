package services

import (
	"errors"
	"fmt"
	"mime/multipart"
	"reflect"
	"regexp"
	"strings"

	"feira/internal/apperror"
	"feira/internal/models"
	"feira/internal/storage"

	"github.com/go-playground/validator/v10"
)

var (
	letterSpace = regexp.MustCompile(`^[\p{L}\s]+$`)
	validate    = newValidator()
)

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their form names so messages line up with the request.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	mustRegister(v, "alphaspace", func(fl validator.FieldLevel) bool {
		return letterSpace.MatchString(fl.Field().String())
	})
	mustRegister(v, "category", func(fl validator.FieldLevel) bool {
		return models.Category(fl.Field().String()).Valid()
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

// validateStruct runs the struct tags and returns one message per failing field.
func validateStruct(s any) map[string]string {
	fields := map[string]string{}
	err := validate.Struct(s)
	if err == nil {
		return fields
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		fields["_"] = err.Error()
		return fields
	}
	for _, e := range verrs {
		field := e.Field()
		if e.Tag() == "eqfield" {
			field = "password"
		}
		if _, seen := fields[field]; seen {
			continue
		}
		fields[field] = fieldMessage(e)
	}
	return fields
}

func fieldMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("may not be greater than %s characters", e.Param())
	case "min":
		return fmt.Sprintf("must be at least %s characters", e.Param())
	case "email":
		return "must be a valid email address"
	case "alphaspace":
		return "may only contain letters and spaces"
	case "category":
		names := make([]string, len(models.Categories))
		for i, c := range models.Categories {
			names[i] = string(c)
		}
		return "must be one of: " + strings.Join(names, ", ")
	case "eqfield":
		return "confirmation does not match"
	default:
		return fmt.Sprintf("failed on the '%s' rule", e.Tag())
	}
}

// checkImage adds an "image" entry to fields when the upload is missing but
// required, or present but not an accepted image.
func checkImage(fields map[string]string, image *multipart.FileHeader, required bool) {
	if image == nil {
		if required {
			fields["image"] = "is required"
		}
		return
	}
	if err := storage.ValidateImage(image); err != nil {
		fields["image"] = err.Error()
	}
}

func validationError(fields map[string]string) error {
	return apperror.Validation(fields)
}
