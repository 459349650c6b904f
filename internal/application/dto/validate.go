package dto

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-manager/internal/domain"
)

var (
	locationCodeRe = regexp.MustCompile(`^[A-Z]{2}-\d{3}$`)
	phoneRe        = regexp.MustCompile(`^\+?[0-9]{1,4}?[-.\s]?\(?[0-9]{1,3}?\)?[-.\s]?[0-9]{1,4}[-.\s]?[0-9]{1,4}[-.\s]?[0-9]{1,9}$`)

	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator devuelve la instancia compartida con las reglas propias registradas:
//
//	loccode   código de ubicación XX-000
//	phone     teléfono con prefijo internacional opcional
//	dgte0     decimal no negativo
//	notblank  texto con algo más que espacios
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
		v.RegisterCustomTypeFunc(func(field reflect.Value) any {
			if d, ok := field.Interface().(decimal.Decimal); ok {
				return d.String()
			}
			return nil
		}, decimal.Decimal{})
		_ = v.RegisterValidation("loccode", func(fl validator.FieldLevel) bool {
			return locationCodeRe.MatchString(fl.Field().String())
		})
		_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
			return phoneRe.MatchString(fl.Field().String())
		})
		_ = v.RegisterValidation("dgte0", func(fl validator.FieldLevel) bool {
			d, err := decimal.NewFromString(fl.Field().String())
			return err == nil && !d.IsNegative()
		})
		_ = v.RegisterValidation("notblank", validators.NotBlank)
		validate = v
	})
	return validate
}

// Validate valida el struct y convierte validator.ValidationErrors en un único error VALIDATION
// con todas las violaciones.
func Validate(s any) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validar entrada: %w", err)
	}
	violations := make([]domain.FieldViolation, 0, len(verrs))
	for _, fe := range verrs {
		violations = append(violations, domain.FieldViolation{Field: fe.Field(), Message: message(fe)})
	}
	return domain.InvalidFields(violations)
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "es obligatorio"
	case "min":
		if fe.Kind() == reflect.String {
			return "debe tener al menos " + fe.Param() + " caracteres"
		}
		return "debe ser mayor o igual a " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String {
			return "debe tener como máximo " + fe.Param() + " caracteres"
		}
		return "debe ser menor o igual a " + fe.Param()
	case "email":
		return "debe ser un correo válido"
	case "loccode":
		return "debe tener el formato XX-000 (dos letras mayúsculas, guion, tres dígitos)"
	case "phone":
		return "debe ser un teléfono válido"
	case "dgte0":
		return "no puede ser negativo"
	case "oneof":
		return "debe ser uno de: " + fe.Param()
	case "notblank":
		return "no puede estar en blanco"
	}
	return "no es válido (" + fe.Tag() + ")"
}
