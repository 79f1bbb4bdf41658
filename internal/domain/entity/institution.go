package entity

import "time"

// Institution es el tenant de nivel superior (sostenedor/corporación) dueño
// de los establecimientos.
type Institution struct {
	ID        string
	Name      string
	RUT       string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
