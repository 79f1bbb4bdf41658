package repository

import (
	"time"

	"github.com/activos-cl/patrimonio-api/internal/domain/entity"
)

// MovementFilter criterios de listado del libro de movimientos.
type MovementFilter struct {
	InstitutionID   string // filtra por institución dueña del activo
	AssetID         string
	EstablishmentID string // filtra por establecimiento actual del activo
	Type            string
	From            *time.Time
	To              *time.Time
	Limit           int
	Offset          int
}

// MovementRepository define el puerto de persistencia del libro de
// movimientos. Solo inserción y lectura: las filas son inmutables.
type MovementRepository interface {
	Create(movement *entity.Movement) error
	GetByID(id string) (*entity.Movement, error)
	ListByAsset(assetID string, limit, offset int) ([]*entity.Movement, error)
	List(filter MovementFilter) ([]*entity.Movement, error)
}
