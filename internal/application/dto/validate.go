package dto

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jhoicas/tours-api/internal/domain"
)

// Validator envoltorio sobre go-playground/validator que usa los nombres JSON de los campos.
type Validator struct {
	validate *validator.Validate
}

// NewValidator construye el validador.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{validate: v}
}

// Validate valida la estructura. Devuelve domain.ErrInvalidInput con el detalle por campo,
// o domain.ErrPasswordMismatch si lo único que falla es la confirmación de la contraseña.
func (v *Validator) Validate(in interface{}) error {
	err := v.validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return domain.ErrInvalidInput.Wrap(err)
	}
	if len(verrs) == 1 && verrs[0].Tag() == "eqfield" {
		return domain.ErrPasswordMismatch
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	sort.Strings(msgs)
	return domain.ErrInvalidInput.WithMessage(strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s es requerido", fe.Field())
	case "email":
		return fmt.Sprintf("%s debe ser un email válido", fe.Field())
	case "eqfield":
		return fmt.Sprintf("%s no coincide con %s", fe.Field(), strings.ToLower(fe.Param()[:1])+fe.Param()[1:])
	case "min", "max":
		return fmt.Sprintf("%s debe cumplir %s=%s", fe.Field(), fe.Tag(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s debe ser uno de: %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s es inválido (%s)", fe.Field(), fe.Tag())
	}
}
