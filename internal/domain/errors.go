package domain

import (
	"errors"
	"fmt"
)

// Errores centinela de dominio (sin dependencias externas). Los handlers HTTP
// mapean cada centinela a una clase de status con errors.Is.
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
	ErrConflict     = errors.New("conflicto con el estado actual")

	// ErrInvalidCredentials cubre tanto cuenta inexistente como contraseña
	// incorrecta, para no filtrar qué cuentas existen.
	ErrInvalidCredentials = errors.New("credenciales inválidas")
)

// Error es un error de dominio con código estable. Code forma parte del
// contrato con las capas externas y nunca cambia entre versiones; Details
// lleva datos estructurados opcionales (ej. {"activeAssets": 3}).
type Error struct {
	Code    string
	Message string
	Details map[string]any
	kind    error // uno de los centinela de arriba
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap permite errors.Is(err, domain.ErrConflict), etc.
func (e *Error) Unwrap() error { return e.kind }

// WithDetails devuelve una copia del error con detalles estructurados.
func (e *Error) WithDetails(details map[string]any) *Error {
	clone := *e
	clone.Details = details
	return &clone
}

// NewValidation construye un error de validación (entrada corregible por el caller).
func NewValidation(code, message string) *Error {
	return &Error{Code: code, Message: message, kind: ErrInvalidInput}
}

// NewConflict construye un error de conflicto de estado (petición bien formada
// que viola un invariante del estado actual).
func NewConflict(code, message string) *Error {
	return &Error{Code: code, Message: message, kind: ErrConflict}
}

// NewForbidden construye un error de autorización (rol/alcance incorrecto).
func NewForbidden(code, message string) *Error {
	return &Error{Code: code, Message: message, kind: ErrForbidden}
}

// NewNotFound construye un error de recurso inexistente.
func NewNotFound(code, message string) *Error {
	return &Error{Code: code, Message: message, kind: ErrNotFound}
}

// CodeOf devuelve el código estable de un error de dominio, o "" si no lo es.
func CodeOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}
