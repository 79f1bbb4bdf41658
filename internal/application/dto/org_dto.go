package dto

import "time"

// CreateInstitutionRequest body para POST /api/institutions.
type CreateInstitutionRequest struct {
	Name string `json:"name" validate:"required,min=1,max=200"`
	RUT  string `json:"rut,omitempty"`
}

// InstitutionResponse institución en respuestas.
type InstitutionResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	RUT       string    `json:"rut,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateEstablishmentRequest body para POST /api/establishments.
type CreateEstablishmentRequest struct {
	InstitutionID string `json:"institution_id" validate:"required,uuid"`
	Name          string `json:"name" validate:"required,min=1,max=200"`
	Address       string `json:"address,omitempty"`
}

// EstablishmentResponse establecimiento en respuestas.
type EstablishmentResponse struct {
	ID            string    `json:"id"`
	InstitutionID string    `json:"institution_id"`
	Name          string    `json:"name"`
	Address       string    `json:"address,omitempty"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CreateDependencyRequest body para POST /api/dependencies.
type CreateDependencyRequest struct {
	EstablishmentID string `json:"establishment_id" validate:"required,uuid"`
	Name            string `json:"name" validate:"required,min=1,max=200"`
	Floor           string `json:"floor,omitempty"`
}

// DependencyResponse dependencia en respuestas.
type DependencyResponse struct {
	ID              string    `json:"id"`
	EstablishmentID string    `json:"establishment_id"`
	Name            string    `json:"name"`
	Floor           string    `json:"floor,omitempty"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// DeactivateResponse resultado de una desactivación. En establecimientos,
// AutoDeactivatedDependencies cuenta las dependencias vacías desactivadas en
// cascada.
type DeactivateResponse struct {
	ID                          string `json:"id"`
	IsActive                    bool   `json:"is_active"`
	AutoDeactivatedDependencies int    `json:"auto_deactivated_dependencies,omitempty"`
}

// ForceDeletePlanResponse plan de borrado forzado para confirmación.
type ForceDeletePlanResponse struct {
	RootKind         string         `json:"root_kind"`
	RootID           string         `json:"root_id"`
	Summary          map[string]int `json:"summary"` // tabla -> filas a borrar
	ConfirmationText string         `json:"confirmation_text"`
}

// ForceDeleteRequest body para POST /api/purge/:kind/:id.
type ForceDeleteRequest struct {
	ConfirmationText string `json:"confirmation_text" validate:"required"`
}

// ForceDeleteResponse filas efectivamente borradas por tabla.
type ForceDeleteResponse struct {
	Deleted map[string]int `json:"deleted"`
}

// CatalogEntryResponse entrada de catálogo (tipo o estado de activo).
type CatalogEntryResponse struct {
	ID   string `json:"id"`
	Code string `json:"code,omitempty"`
	Name string `json:"name"`
}
