package entity

import "time"

// Tipos de movimiento del libro de movimientos.
const (
	MovementTypeInventoryCheck = "INVENTORY_CHECK" // alta inicial
	MovementTypeTransfer       = "TRANSFER"        // traslado entre establecimientos
	MovementTypeStatusChange   = "STATUS_CHANGE"   // cambio de estado (incluye baja y restauración)
	MovementTypeRelocation     = "RELOCATION"      // reubicación dentro del establecimiento
)

// Ámbitos de motivo para transiciones sensibles. RESTORE comparte el tipo de
// movimiento STATUS_CHANGE; se distingue por su vocabulario de motivos.
const (
	ReasonScopeTransfer     = "TRANSFER"
	ReasonScopeStatusChange = "STATUS_CHANGE"
	ReasonScopeRestore      = "RESTORE"
)

// Vocabularios cerrados de motivos por ámbito. Un código fuera del
// vocabulario de su ámbito nunca se acepta ni se reemplaza por defecto.
var ReasonVocabulary = map[string]map[string]bool{
	ReasonScopeTransfer: {
		"REASSIGNMENT":         true,
		"OPERATIONAL_NEED":     true,
		"SPACE_OPTIMIZATION":   true,
		"SECURITY_REQUIREMENT": true,
	},
	ReasonScopeStatusChange: {
		"NORMAL_WEAR":   true,
		"DAMAGE":        true,
		"OBSOLESCENCE":  true,
		"LOSS_OR_THEFT": true,
		"END_OF_LIFE":   true,
	},
	ReasonScopeRestore: {
		"REGISTRATION_ERROR": true,
		"ASSET_RECOVERED":    true,
		"REPAIR_COMPLETED":   true,
		"AUDIT_CORRECTION":   true,
	},
}

// Movement es una fila inmutable del libro de movimientos: registra lo que
// ocurrió físicamente con el activo. Nunca se actualiza después de creada
// (solo las evidencias la referencian).
type Movement struct {
	ID               string
	AssetID          string
	Type             string
	ReasonCode       *string // obligatorio en transiciones sensibles
	FromDependencyID *string
	ToDependencyID   *string
	UserID           string
	CreatedAt        time.Time
}
