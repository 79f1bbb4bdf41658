package entity

import "time"

// Establishment es un recinto (escuela, edificio) bajo una institución.
type Establishment struct {
	ID            string
	InstitutionID string
	Name          string
	Address       string
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
