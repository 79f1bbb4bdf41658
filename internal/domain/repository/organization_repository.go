package repository

import "github.com/activos-cl/patrimonio-api/internal/domain/entity"

// InstitutionRepository define el puerto de persistencia para instituciones.
type InstitutionRepository interface {
	Create(institution *entity.Institution) error
	GetByID(id string) (*entity.Institution, error)
	List(limit, offset int) ([]*entity.Institution, error)
	SetActive(id string, active bool) error
	CountActiveEstablishments(institutionID string) (int, error)
}

// EstablishmentRepository define el puerto de persistencia para establecimientos.
type EstablishmentRepository interface {
	Create(establishment *entity.Establishment) error
	GetByID(id string) (*entity.Establishment, error)
	ListByInstitution(institutionID string, limit, offset int) ([]*entity.Establishment, error)
	SetActive(id string, active bool) error
}

// DependencyRepository define el puerto de persistencia para dependencias.
type DependencyRepository interface {
	Create(dependency *entity.Dependency) error
	GetByID(id string) (*entity.Dependency, error)
	ListByEstablishment(establishmentID string, limit, offset int) ([]*entity.Dependency, error)
	ListActiveByEstablishment(establishmentID string) ([]*entity.Dependency, error)
	SetActive(id string, active bool) error
}
