package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Kind clasifica los errores de dominio. El valor es estable y se expone tal cual al cliente.
type Kind string

const (
	KindNotFound             Kind = "NOT_FOUND"
	KindConflict             Kind = "CONFLICT"
	KindInvalidArgument      Kind = "VALIDATION"
	KindInsufficientQuantity Kind = "INSUFFICIENT_QUANTITY"
)

// Sentinelas para comparar con errors.Is sin depender del mensaje.
var (
	ErrNotFound             = errors.New("recurso no encontrado")
	ErrConflict             = errors.New("conflicto con el estado actual")
	ErrInvalidInput         = errors.New("entrada inválida")
	ErrInsufficientQuantity = errors.New("cantidad insuficiente")
)

// FieldViolation describe un campo que no cumple sus restricciones.
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error es el error de dominio etiquetado: tipo + contexto estructurado (entidad, id, campo).
type Error struct {
	Kind       Kind
	Entity     string
	ID         string
	Field      string
	Message    string
	Violations []FieldViolation
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	if e.Entity != "" {
		b.WriteString(" [" + e.Entity)
		if e.ID != "" {
			b.WriteString(" " + e.ID)
		}
		b.WriteString("]")
	}
	if e.Message != "" {
		b.WriteString(": " + e.Message)
	}
	for _, v := range e.Violations {
		fmt.Fprintf(&b, "; %s: %s", v.Field, v.Message)
	}
	return b.String()
}

// Is permite errors.Is(err, domain.ErrNotFound) y similares.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrConflict:
		return e.Kind == KindConflict
	case ErrInvalidInput:
		return e.Kind == KindInvalidArgument
	case ErrInsufficientQuantity:
		return e.Kind == KindInsufficientQuantity
	}
	return false
}

// NotFound: el id o código no resuelve a ninguna entidad.
func NotFound(entity, id string) *Error {
	return &Error{Kind: KindNotFound, Entity: entity, ID: id, Message: entity + " no encontrado"}
}

// Conflict: violación de unicidad o borrado bloqueado por referencias.
func Conflict(entity, field, message string) *Error {
	return &Error{Kind: KindConflict, Entity: entity, Field: field, Message: message}
}

// Invalid: un único campo inválido.
func Invalid(field, message string) *Error {
	return &Error{
		Kind:       KindInvalidArgument,
		Field:      field,
		Message:    "datos inválidos",
		Violations: []FieldViolation{{Field: field, Message: message}},
	}
}

// InvalidFields agrupa todas las violaciones detectadas en una sola respuesta.
func InvalidFields(violations []FieldViolation) *Error {
	return &Error{Kind: KindInvalidArgument, Message: "datos inválidos", Violations: violations}
}

// JoinInvalid une las violaciones de varios errores VALIDATION sin repetir campo; gana la primera.
// Un error de otro tipo se devuelve tal cual.
func JoinInvalid(errs ...error) error {
	var out []FieldViolation
	seen := make(map[string]bool)
	for _, err := range errs {
		if err == nil {
			continue
		}
		de, ok := AsError(err)
		if !ok || de.Kind != KindInvalidArgument {
			return err
		}
		for _, v := range de.Violations {
			if !seen[v.Field] {
				seen[v.Field] = true
				out = append(out, v)
			}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return InvalidFields(out)
}

// InsufficientQuantity: el movimiento dejaría la cantidad en negativo.
func InsufficientQuantity(itemID string, available, requested int64) *Error {
	return &Error{
		Kind:    KindInsufficientQuantity,
		Entity:  "item",
		ID:      itemID,
		Field:   "quantity",
		Message: fmt.Sprintf("cantidad insuficiente: disponible %d, solicitado %d", available, requested),
	}
}

// KindOf devuelve el tipo de un error de dominio, o "" si err no lo es.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// AsError extrae el *Error de dominio de la cadena de errores.
func AsError(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
