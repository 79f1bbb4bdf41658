package entity

import (
	"encoding/json"
	"time"
)

// Acciones auditables sobre el registro del activo.
const (
	AuditActionCreate       = "CREATE"
	AuditActionUpdate       = "UPDATE"
	AuditActionRelocate     = "RELOCATE"
	AuditActionStatusChange = "STATUS_CHANGE"
	AuditActionRestore      = "RESTORE"
)

// AssetAudit es el rastro auditable secundario: instantáneas JSON del activo
// antes y después de cada mutación. Movement registra qué pasó físicamente;
// AssetAudit registra qué cambió en el registro.
type AssetAudit struct {
	ID        string
	AssetID   string
	Action    string
	Before    json.RawMessage // nil en CREATE
	After     json.RawMessage
	UserID    string
	CreatedAt time.Time
}
