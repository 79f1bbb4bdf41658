package entity

import "time"

// Dependency es una sala o sub-ubicación dentro de un establecimiento; la
// unidad de custodia más fina para un activo.
type Dependency struct {
	ID              string
	EstablishmentID string
	Name            string
	Floor           string
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
