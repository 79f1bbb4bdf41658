package repository

import "github.com/activos-cl/patrimonio-api/internal/domain/entity"

// UserRepository define el puerto de persistencia para usuarios.
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	ListByInstitution(institutionID string, limit, offset int) ([]*entity.User, error)
	SetActive(id string, active bool) error
	CountActiveByEstablishment(establishmentID string) (int, error)
}
