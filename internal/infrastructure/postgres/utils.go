package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/activos-cl/patrimonio-api/internal/domain"
)

// Nombres de constraints únicos relevantes para el mapeo a errores de dominio.
const (
	constraintInternalCode  = "uq_assets_institution_internal_code"
	constraintAssetIdentity = "uq_assets_identity_active"
	constraintUserEmail     = "uq_users_email"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// violatedConstraint devuelve el nombre del constraint único violado, o "".
func violatedConstraint(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return pgErr.ConstraintName
	}
	return ""
}

// mapAssetUniqueViolation traduce una violación 23505 sobre assets al error
// de dominio que corresponde según el constraint golpeado.
func mapAssetUniqueViolation(err error) error {
	switch violatedConstraint(err) {
	case constraintInternalCode:
		return domain.NewConflict("ASSET_INTERNAL_CODE_CONFLICT", "el correlativo interno ya está en uso en la institución")
	case constraintAssetIdentity:
		return domain.NewConflict("ASSET_IDENTITY_DUPLICATE", "ya existe un activo vigente con la misma serie, marca y modelo")
	}
	return err
}
