// Package validator envuelve go-playground/validator para los DTOs de entrada.
package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// FieldError detalle de un campo inválido.
type FieldError struct {
	Field string `json:"field"`
	Tag   string `json:"tag"`
	Param string `json:"param,omitempty"`
}

// Error agrupa los campos inválidos de un struct.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		if f.Param != "" {
			parts = append(parts, fmt.Sprintf("%s: %s=%s", f.Field, f.Tag, f.Param))
		} else {
			parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Tag))
		}
	}
	return "validación fallida (" + strings.Join(parts, "; ") + ")"
}

// Struct valida v según sus tags `validate`. Devuelve *Error o nil.
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &Error{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Field: fe.Namespace(),
			Tag:   fe.Tag(),
			Param: fe.Param(),
		})
	}
	return out
}
