package entity

import "time"

// Roles válidos para User.
const (
	RoleAdminCentral       = "ADMIN_CENTRAL"       // opera sobre cualquier alcance de su institución
	RoleAdminEstablishment = "ADMIN_ESTABLISHMENT" // confinado a su establecimiento
	RoleViewer             = "VIEWER"              // solo lectura donde tenga visibilidad
)

// User representa un usuario del sistema. EstablishmentID es nil para
// ADMIN_CENTRAL; obligatorio para ADMIN_ESTABLISHMENT.
type User struct {
	ID              string
	InstitutionID   string
	EstablishmentID *string
	Email           string
	PasswordHash    string // bcrypt, nunca plano después de persistir
	Name            string
	RUT             string
	Role            string
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
