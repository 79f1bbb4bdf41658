package purge_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/activos-cl/patrimonio-api/internal/application/authz"
	"github.com/activos-cl/patrimonio-api/internal/application/purge"
	"github.com/activos-cl/patrimonio-api/internal/domain"
	"github.com/activos-cl/patrimonio-api/internal/domain/entity"
	"github.com/activos-cl/patrimonio-api/internal/domain/repository"
)

const (
	instID = "inst-1"
	est1   = "est-1"
	dep1   = "dep-1"
	dep2   = "dep-2"
	user1  = "user-1"
)

// ──────────────────────────────────────────────────────────────────────────────
// Dobles mínimos: solo los métodos que ejercita el planificador. Los puertos
// no usados quedan en la interfaz embebida (panic si un test los alcanza).
// ──────────────────────────────────────────────────────────────────────────────

type stubInstRepo struct {
	repository.InstitutionRepository
	institutions map[string]*entity.Institution
	activeEsts   int
}

func (r *stubInstRepo) GetByID(id string) (*entity.Institution, error) {
	return r.institutions[id], nil
}

func (r *stubInstRepo) SetActive(id string, active bool) error {
	if inst, ok := r.institutions[id]; ok {
		inst.IsActive = active
	}
	return nil
}

func (r *stubInstRepo) CountActiveEstablishments(string) (int, error) {
	return r.activeEsts, nil
}

type stubEstRepo struct {
	repository.EstablishmentRepository
	establishments map[string]*entity.Establishment
}

func (r *stubEstRepo) GetByID(id string) (*entity.Establishment, error) {
	return r.establishments[id], nil
}

func (r *stubEstRepo) SetActive(id string, active bool) error {
	if est, ok := r.establishments[id]; ok {
		est.IsActive = active
	}
	return nil
}

type stubDepRepo struct {
	repository.DependencyRepository
	dependencies map[string]*entity.Dependency
}

func (r *stubDepRepo) GetByID(id string) (*entity.Dependency, error) {
	return r.dependencies[id], nil
}

func (r *stubDepRepo) SetActive(id string, active bool) error {
	if dep, ok := r.dependencies[id]; ok {
		dep.IsActive = active
	}
	return nil
}

func (r *stubDepRepo) ListActiveByEstablishment(establishmentID string) ([]*entity.Dependency, error) {
	var out []*entity.Dependency
	for _, dep := range r.dependencies {
		if dep.EstablishmentID == establishmentID && dep.IsActive {
			out = append(out, dep)
		}
	}
	return out, nil
}

type stubUserRepo struct {
	repository.UserRepository
	users       map[string]*entity.User
	activeByEst map[string]int
}

func (r *stubUserRepo) GetByID(id string) (*entity.User, error) {
	return r.users[id], nil
}

func (r *stubUserRepo) SetActive(id string, active bool) error {
	if u, ok := r.users[id]; ok {
		u.IsActive = active
	}
	return nil
}

func (r *stubUserRepo) CountActiveByEstablishment(establishmentID string) (int, error) {
	return r.activeByEst[establishmentID], nil
}

type stubAssetRepo struct {
	repository.AssetRepository
	activeByEst map[string]int
	activeByDep map[string]int
}

func (r *stubAssetRepo) CountActiveByEstablishment(establishmentID string) (int, error) {
	return r.activeByEst[establishmentID], nil
}

func (r *stubAssetRepo) CountActiveByDependency(dependencyID string) (int, error) {
	return r.activeByDep[dependencyID], nil
}

// row es una fila del grafo simulado: id más sus claves foráneas.
type row struct {
	id  string
	fks map[string]string
}

// fakePurgeRepo simula las tablas del grafo referencial y registra el orden
// de borrado para verificar hijos-antes-que-padres.
type fakePurgeRepo struct {
	tables      map[string][]row
	deleteOrder []string
}

func (r *fakePurgeRepo) CollectChildIDs(table, fkColumn string, parentIDs []string) ([]string, error) {
	parents := map[string]bool{}
	for _, id := range parentIDs {
		parents[id] = true
	}
	var out []string
	for _, rw := range r.tables[table] {
		if parents[rw.fks[fkColumn]] {
			out = append(out, rw.id)
		}
	}
	return out, nil
}

func (r *fakePurgeRepo) DeleteByIDs(table string, ids []string) (int, error) {
	toDelete := map[string]bool{}
	for _, id := range ids {
		toDelete[id] = true
	}
	var kept []row
	n := 0
	for _, rw := range r.tables[table] {
		if toDelete[rw.id] {
			n++
			continue
		}
		kept = append(kept, rw)
	}
	r.tables[table] = kept
	r.deleteOrder = append(r.deleteOrder, table)
	return n, nil
}

type stubTxRunner struct {
	estRepo   *stubEstRepo
	depRepo   *stubDepRepo
	purgeRepo *fakePurgeRepo
}

var _ purge.TxRunner = (*stubTxRunner)(nil)

func (tr *stubTxRunner) RunOrg(ctx context.Context, fn func(
	estRepo repository.EstablishmentRepository,
	depRepo repository.DependencyRepository,
) error) error {
	return fn(tr.estRepo, tr.depRepo)
}

func (tr *stubTxRunner) RunPurge(ctx context.Context, fn func(purgeRepo repository.PurgeRepository) error) error {
	return fn(tr.purgeRepo)
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixture: inst-1 → est-1 → {dep-1, dep-2} y user-1 central desactivado
// ──────────────────────────────────────────────────────────────────────────────

type fix struct {
	uc        *purge.UseCase
	instRepo  *stubInstRepo
	estRepo   *stubEstRepo
	depRepo   *stubDepRepo
	userRepo  *stubUserRepo
	assetRepo *stubAssetRepo
	purgeRepo *fakePurgeRepo
}

func newFix() *fix {
	instRepo := &stubInstRepo{institutions: map[string]*entity.Institution{
		instID: {ID: instID, Name: "Corporación Municipal", IsActive: true},
	}}
	estRepo := &stubEstRepo{establishments: map[string]*entity.Establishment{
		est1: {ID: est1, InstitutionID: instID, Name: "Escuela Central", IsActive: true},
	}}
	depRepo := &stubDepRepo{dependencies: map[string]*entity.Dependency{
		dep1: {ID: dep1, EstablishmentID: est1, Name: "Sala 101", IsActive: true},
		dep2: {ID: dep2, EstablishmentID: est1, Name: "Bodega", IsActive: true},
	}}
	userRepo := &stubUserRepo{
		users: map[string]*entity.User{
			user1: {ID: user1, InstitutionID: instID, Role: entity.RoleAdminCentral, IsActive: true},
		},
		activeByEst: map[string]int{},
	}
	assetRepo := &stubAssetRepo{activeByEst: map[string]int{}, activeByDep: map[string]int{}}
	purgeRepo := &fakePurgeRepo{tables: map[string][]row{}}
	tx := &stubTxRunner{estRepo: estRepo, depRepo: depRepo, purgeRepo: purgeRepo}

	return &fix{
		uc:        purge.NewUseCase(tx, instRepo, estRepo, depRepo, userRepo, assetRepo, purgeRepo),
		instRepo:  instRepo,
		estRepo:   estRepo,
		depRepo:   depRepo,
		userRepo:  userRepo,
		assetRepo: assetRepo,
		purgeRepo: purgeRepo,
	}
}

func central() authz.Actor {
	return authz.Actor{ID: user1, Role: entity.RoleAdminCentral, InstitutionID: instID}
}

// ──────────────────────────────────────────────────────────────────────────────
// Fase 1: desactivación
// ──────────────────────────────────────────────────────────────────────────────

func TestDeactivateInstitution_BloqueadaPorEstablecimientosVigentes(t *testing.T) {
	f := newFix()
	f.instRepo.activeEsts = 2

	err := f.uc.DeactivateInstitution(context.Background(), central(), instID)
	require.Equal(t, "INSTITUTION_HAS_ACTIVE_ESTABLISHMENTS", domain.CodeOf(err))

	var de *domain.Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, 2, de.Details["activeEstablishments"])
	assert.True(t, f.instRepo.institutions[instID].IsActive, "nada debe mutar al bloquear")
}

func TestDeactivateInstitution_SinDependientes_OK(t *testing.T) {
	f := newFix()
	require.NoError(t, f.uc.DeactivateInstitution(context.Background(), central(), instID))
	assert.False(t, f.instRepo.institutions[instID].IsActive)

	// Repetir la desactivación es conflicto, no idempotencia silenciosa.
	err := f.uc.DeactivateInstitution(context.Background(), central(), instID)
	assert.Equal(t, "INSTITUTION_ALREADY_INACTIVE", domain.CodeOf(err))
}

func TestDeactivateInstitution_RequiereCentral(t *testing.T) {
	f := newFix()
	est := est1
	actor := authz.Actor{ID: "u9", Role: entity.RoleAdminEstablishment, InstitutionID: instID, EstablishmentID: &est}
	err := f.uc.DeactivateInstitution(context.Background(), actor, instID)
	assert.Equal(t, "FORBIDDEN_SCOPE", domain.CodeOf(err))
}

func TestDeactivateEstablishment_BloqueadoPorUsuariosVigentes(t *testing.T) {
	f := newFix()
	f.userRepo.activeByEst[est1] = 3
	_, err := f.uc.DeactivateEstablishment(context.Background(), central(), est1)
	assert.Equal(t, "ESTABLISHMENT_HAS_ACTIVE_USERS", domain.CodeOf(err))
}

func TestDeactivateEstablishment_BloqueadoPorActivosVigentes(t *testing.T) {
	f := newFix()
	f.assetRepo.activeByEst[est1] = 5
	_, err := f.uc.DeactivateEstablishment(context.Background(), central(), est1)
	require.Equal(t, "ESTABLISHMENT_HAS_ACTIVE_ASSETS", domain.CodeOf(err))
	assert.True(t, f.estRepo.establishments[est1].IsActive)
	assert.True(t, f.depRepo.dependencies[dep1].IsActive, "el bloqueo no debe tocar dependencias")
}

// Las dependencias vigentes sin activos se auto-desactivan junto al
// establecimiento y el resultado informa cuántas.
func TestDeactivateEstablishment_AutoDesactivaDependencias(t *testing.T) {
	f := newFix()
	res, err := f.uc.DeactivateEstablishment(context.Background(), central(), est1)
	require.NoError(t, err)
	assert.Equal(t, 2, res.AutoDeactivatedDependencies)
	assert.False(t, f.estRepo.establishments[est1].IsActive)
	assert.False(t, f.depRepo.dependencies[dep1].IsActive)
	assert.False(t, f.depRepo.dependencies[dep2].IsActive)
}

// La reactivación del establecimiento no reactiva dependencias en cascada.
func TestReactivateEstablishment_SinCascada(t *testing.T) {
	f := newFix()
	_, err := f.uc.DeactivateEstablishment(context.Background(), central(), est1)
	require.NoError(t, err)

	require.NoError(t, f.uc.ReactivateEstablishment(context.Background(), central(), est1))
	assert.True(t, f.estRepo.establishments[est1].IsActive)
	assert.False(t, f.depRepo.dependencies[dep1].IsActive,
		"cada dependencia se reactiva explícitamente")
}

func TestDeactivateDependency_BloqueadaPorActivos(t *testing.T) {
	f := newFix()
	f.assetRepo.activeByDep[dep1] = 1
	err := f.uc.DeactivateDependency(context.Background(), central(), dep1)
	assert.Equal(t, "DEPENDENCY_HAS_ACTIVE_ASSETS", domain.CodeOf(err))
}

// ADMIN_ESTABLISHMENT desactiva dependencias de su propio establecimiento.
func TestDeactivateDependency_AdminDeEstablecimiento(t *testing.T) {
	f := newFix()
	est := est1
	actor := authz.Actor{ID: "u9", Role: entity.RoleAdminEstablishment, InstitutionID: instID, EstablishmentID: &est}
	require.NoError(t, f.uc.DeactivateDependency(context.Background(), actor, dep1))
	assert.False(t, f.depRepo.dependencies[dep1].IsActive)

	otra := "est-otro"
	ajeno := authz.Actor{ID: "u10", Role: entity.RoleAdminEstablishment, InstitutionID: instID, EstablishmentID: &otra}
	err := f.uc.DeactivateDependency(context.Background(), ajeno, dep2)
	assert.Equal(t, "FORBIDDEN_SCOPE", domain.CodeOf(err))
}

// Un ADMIN_CENTRAL cruza establecimientos pero nunca instituciones: las
// dependencias de un establecimiento ajeno le son intocables.
func TestDeactivateDependency_CentralDeOtraInstitucion(t *testing.T) {
	f := newFix()
	ajeno := authz.Actor{ID: "u11", Role: entity.RoleAdminCentral, InstitutionID: "inst-ajena"}

	err := f.uc.DeactivateDependency(context.Background(), ajeno, dep1)
	assert.Equal(t, "FORBIDDEN_SCOPE", domain.CodeOf(err))
	assert.True(t, f.depRepo.dependencies[dep1].IsActive, "nada debe mutar")

	f.depRepo.dependencies[dep2].IsActive = false
	err = f.uc.ReactivateDependency(context.Background(), ajeno, dep2)
	assert.Equal(t, "FORBIDDEN_SCOPE", domain.CodeOf(err))
	assert.False(t, f.depRepo.dependencies[dep2].IsActive)
}

func TestDeactivateUser_YReactivacion(t *testing.T) {
	f := newFix()
	require.NoError(t, f.uc.DeactivateUser(context.Background(), central(), user1))
	assert.False(t, f.userRepo.users[user1].IsActive)

	err := f.uc.DeactivateUser(context.Background(), central(), user1)
	assert.Equal(t, "USER_ALREADY_INACTIVE", domain.CodeOf(err))

	require.NoError(t, f.uc.ReactivateUser(context.Background(), central(), user1))
	assert.True(t, f.userRepo.users[user1].IsActive)
}

// ──────────────────────────────────────────────────────────────────────────────
// Fase 2: plan y purga física
// ──────────────────────────────────────────────────────────────────────────────

// seedPurgeTables puebla el grafo simulado con los dependientes de est-1.
func seedPurgeTables(f *fix) {
	f.purgeRepo.tables = map[string][]row{
		"establishments": {{id: est1, fks: map[string]string{"institution_id": instID}}},
		"dependencies": {
			{id: dep1, fks: map[string]string{"establishment_id": est1}},
			{id: dep2, fks: map[string]string{"establishment_id": est1}},
		},
		"users": {{id: user1, fks: map[string]string{"institution_id": instID, "establishment_id": est1}}},
		"assets": {
			{id: "asset-1", fks: map[string]string{"establishment_id": est1, "dependency_id": dep1}},
			{id: "asset-2", fks: map[string]string{"establishment_id": est1, "dependency_id": dep2}},
		},
		"movements": {
			{id: "mov-1", fks: map[string]string{"asset_id": "asset-1"}},
			{id: "mov-2", fks: map[string]string{"asset_id": "asset-2"}},
			{id: "mov-3", fks: map[string]string{"asset_id": "asset-2"}},
		},
		"asset_evidences": {{id: "ev-1", fks: map[string]string{"asset_id": "asset-1"}}},
		"asset_audits":    {{id: "aud-1", fks: map[string]string{"asset_id": "asset-1"}}},
		"refresh_tokens":  {{id: "rt-1", fks: map[string]string{"user_id": user1}}},
	}
}

func deactivateAll(t *testing.T, f *fix) {
	t.Helper()
	f.userRepo.users[user1].IsActive = false
	_, err := f.uc.DeactivateEstablishment(context.Background(), central(), est1)
	require.NoError(t, err)
}

func TestPlanForceDelete_RequiereDesactivacionPrevia(t *testing.T) {
	f := newFix()
	_, err := f.uc.PlanForceDelete(context.Background(), central(), purge.KindEstablishment, est1)
	assert.Equal(t, "FORCE_DELETE_REQUIRES_DEACTIVATION", domain.CodeOf(err))
}

func TestPlanForceDelete_ResumenYConfirmacion(t *testing.T) {
	f := newFix()
	seedPurgeTables(f)
	deactivateAll(t, f)

	plan, err := f.uc.PlanForceDelete(context.Background(), central(), purge.KindEstablishment, est1)
	require.NoError(t, err)
	assert.Equal(t, "ELIMINAR ESTABLISHMENT "+est1, plan.ConfirmationText)
	assert.Equal(t, 1, plan.Summary["establishments"])
	assert.Equal(t, 2, plan.Summary["dependencies"])
	assert.Equal(t, 1, plan.Summary["users"])
	assert.Equal(t, 2, plan.Summary["assets"])
	assert.Equal(t, 3, plan.Summary["movements"])
	assert.Equal(t, 1, plan.Summary["evidences"])
	assert.Equal(t, 1, plan.Summary["refreshTokens"])
	assert.Equal(t, 0, plan.Summary["institutions"], "la institución no cae al purgar un establecimiento")
}

func TestExecuteForceDelete_ConfirmacionIncorrecta(t *testing.T) {
	f := newFix()
	seedPurgeTables(f)
	deactivateAll(t, f)

	_, err := f.uc.ExecuteForceDelete(context.Background(), central(), purge.KindEstablishment, est1, "ELIMINAR TODO")
	assert.Equal(t, "FORCE_DELETE_CONFIRMATION_INVALID", domain.CodeOf(err))
	assert.NotEmpty(t, f.purgeRepo.tables["assets"], "nada debe borrarse sin la literal exacta")
}

func TestExecuteForceDelete_BorraHijosAntesQuePadres(t *testing.T) {
	f := newFix()
	seedPurgeTables(f)
	deactivateAll(t, f)

	deleted, err := f.uc.ExecuteForceDelete(context.Background(), central(),
		purge.KindEstablishment, est1, "ELIMINAR ESTABLISHMENT "+est1)
	require.NoError(t, err)

	assert.Equal(t, 2, deleted["assets"])
	assert.Equal(t, 3, deleted["movements"])
	assert.Equal(t, 1, deleted["establishments"])
	assert.Empty(t, f.purgeRepo.tables["assets"])
	assert.Empty(t, f.purgeRepo.tables["establishments"])

	// El orden de borrado respeta el grafo referencial invertido.
	pos := map[string]int{}
	for i, table := range f.purgeRepo.deleteOrder {
		pos[table] = i
	}
	assert.Less(t, pos["movements"], pos["assets"])
	assert.Less(t, pos["asset_evidences"], pos["assets"])
	assert.Less(t, pos["assets"], pos["dependencies"])
	assert.Less(t, pos["dependencies"], pos["establishments"])
	assert.Less(t, pos["refresh_tokens"], pos["users"])
}
