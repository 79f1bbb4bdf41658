package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/activos-cl/patrimonio-api/internal/application/auth"
	"github.com/activos-cl/patrimonio-api/internal/application/dto"
	"github.com/activos-cl/patrimonio-api/internal/domain"
	"github.com/activos-cl/patrimonio-api/internal/domain/entity"
	"github.com/activos-cl/patrimonio-api/internal/domain/repository"
)

type stubUserRepo struct {
	repository.UserRepository
	byEmail map[string]*entity.User
}

func (r *stubUserRepo) GetByEmail(email string) (*entity.User, error) {
	return r.byEmail[email], nil
}

func newAuthUC(t *testing.T, active bool) *auth.UseCase {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secreto-largo"), bcrypt.MinCost)
	require.NoError(t, err)
	est := "est-1"
	repo := &stubUserRepo{byEmail: map[string]*entity.User{
		"encargada@hospital.cl": {
			ID:              "u-1",
			InstitutionID:   "inst-1",
			EstablishmentID: &est,
			Email:           "encargada@hospital.cl",
			PasswordHash:    string(hash),
			Role:            entity.RoleAdminEstablishment,
			IsActive:        active,
		},
	}}
	return auth.NewUseCase(repo, auth.JWTConfig{Secret: "clave-de-prueba", ExpMinutes: 15, Issuer: "patrimonio-api"})
}

func TestLogin_OK(t *testing.T) {
	uc := newAuthUC(t, true)

	out, err := uc.Login(dto.LoginRequest{Email: "  Encargada@Hospital.CL ", Password: "secreto-largo"})
	require.NoError(t, err)
	assert.NotEmpty(t, out.Token)
	assert.Equal(t, "u-1", out.User.ID)
	assert.Equal(t, entity.RoleAdminEstablishment, out.User.Role)
}

// Cuenta inexistente y contraseña incorrecta responden el mismo error: el
// login no filtra qué cuentas existen.
func TestLogin_CredencialesInvalidas(t *testing.T) {
	uc := newAuthUC(t, true)

	_, errUnknown := uc.Login(dto.LoginRequest{Email: "nadie@hospital.cl", Password: "secreto-largo"})
	_, errWrongPass := uc.Login(dto.LoginRequest{Email: "encargada@hospital.cl", Password: "otra-clave"})

	assert.ErrorIs(t, errUnknown, domain.ErrInvalidCredentials)
	assert.ErrorIs(t, errWrongPass, domain.ErrInvalidCredentials)
	assert.Equal(t, domain.CodeOf(errUnknown), domain.CodeOf(errWrongPass))
}

func TestLogin_CuentaDesactivada(t *testing.T) {
	uc := newAuthUC(t, false)

	_, err := uc.Login(dto.LoginRequest{Email: "encargada@hospital.cl", Password: "secreto-largo"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
