package assets_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/activos-cl/patrimonio-api/internal/application/assets"
	"github.com/activos-cl/patrimonio-api/internal/application/authz"
	"github.com/activos-cl/patrimonio-api/internal/application/evidence"
	"github.com/activos-cl/patrimonio-api/internal/application/rules"
	"github.com/activos-cl/patrimonio-api/internal/domain"
	"github.com/activos-cl/patrimonio-api/internal/domain/entity"
	"github.com/activos-cl/patrimonio-api/internal/domain/repository"
)

const (
	fixInstitution = "00000000-0000-0000-0000-00000000aaaa"
	fixEst1        = "00000000-0000-0000-0000-0000000000e1"
	fixEst2        = "00000000-0000-0000-0000-0000000000e2"
	fixDep1        = "00000000-0000-0000-0000-0000000000d1"
	fixDep2        = "00000000-0000-0000-0000-0000000000d2"
	fixDep3        = "00000000-0000-0000-0000-0000000000d3"
	fixTypeID      = "00000000-0000-0000-0000-0000000000t1"
	fixStateBueno  = "00000000-0000-0000-0000-0000000000s1"
	fixStateMalo   = "00000000-0000-0000-0000-0000000000s3"
	fixStateBaja   = "00000000-0000-0000-0000-0000000000s4"
)

// fixture arma el grafo organizacional mínimo: una institución con dos
// establecimientos, dep-1 y dep-2 en el primero, dep-3 en el segundo.
type fixture struct {
	uc        *assets.LifecycleUseCase
	assetRepo *memAssetRepo
	movRepo   *memMovementRepo
	auditRepo *memAuditRepo
	evRepo    *memEvidenceRepo
	seqRepo   *memSequenceRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	assetRepo := newMemAssetRepo()
	movRepo := &memMovementRepo{}
	auditRepo := &memAuditRepo{}
	evRepo := &memEvidenceRepo{}
	seqRepo := newMemSequenceRepo()

	catalogRepo := &memCatalogRepo{
		types: map[string]*entity.AssetType{
			fixTypeID: {ID: fixTypeID, Name: "Mobiliario"},
		},
		states: map[string]*entity.AssetState{
			fixStateBueno: {ID: fixStateBueno, Code: entity.AssetStateBueno, Name: "Bueno"},
			fixStateMalo:  {ID: fixStateMalo, Code: entity.AssetStateMalo, Name: "Malo"},
			fixStateBaja:  {ID: fixStateBaja, Code: entity.AssetStateBaja, Name: "Dado de baja"},
		},
		items: map[string]*entity.CatalogItem{},
	}
	estRepo := &memEstablishmentRepo{establishments: map[string]*entity.Establishment{
		fixEst1: {ID: fixEst1, InstitutionID: fixInstitution, Name: "Escuela Central", IsActive: true},
		fixEst2: {ID: fixEst2, InstitutionID: fixInstitution, Name: "Anexo Norte", IsActive: true},
	}}
	depRepo := &memDependencyRepo{dependencies: map[string]*entity.Dependency{
		fixDep1: {ID: fixDep1, EstablishmentID: fixEst1, Name: "Sala 101", IsActive: true},
		fixDep2: {ID: fixDep2, EstablishmentID: fixEst1, Name: "Bodega", IsActive: true},
		fixDep3: {ID: fixDep3, EstablishmentID: fixEst2, Name: "Laboratorio", IsActive: true},
	}}

	validator := rules.NewValidator(rules.Limits{
		ValueCeiling: decimal.NewFromInt(1_000_000_000),
		MaxNameLen:   200,
		MaxFieldLen:  100,
	})
	txRunner := &fakeTxRunner{
		assetRepo:    assetRepo,
		movRepo:      movRepo,
		auditRepo:    auditRepo,
		evidenceRepo: evRepo,
		seqRepo:      seqRepo,
	}
	uc := assets.NewLifecycleUseCase(txRunner, assetRepo, movRepo, evRepo, catalogRepo, estRepo, depRepo, validator)
	return &fixture{uc: uc, assetRepo: assetRepo, movRepo: movRepo, auditRepo: auditRepo, evRepo: evRepo, seqRepo: seqRepo}
}

func centralActor() authz.Actor {
	return authz.Actor{ID: "user-central", Role: entity.RoleAdminCentral, InstitutionID: fixInstitution}
}

func estActor(est string) authz.Actor {
	return authz.Actor{ID: "user-est", Role: entity.RoleAdminEstablishment, InstitutionID: fixInstitution, EstablishmentID: &est}
}

func baseCreateInput() assets.CreateAssetInput {
	return assets.CreateAssetInput{
		Name:             "Proyector Epson",
		Quantity:         1,
		Brand:            "Epson",
		Model:            "EB-X06",
		SerialNumber:     "SN-001",
		AcquisitionValue: decimal.NewFromInt(350_000),
		AcquisitionDate:  time.Now().AddDate(0, -6, 0),
		AssetTypeID:      fixTypeID,
		AssetStateID:     fixStateBueno,
		EstablishmentID:  fixEst1,
		DependencyID:     fixDep1,
	}
}

func pdfEvidence() *evidence.Input {
	return &evidence.Input{
		DocType:  entity.EvidenceDocActa,
		MimeType: "application/pdf",
		FileName: "acta.pdf",
		Content:  []byte("%PDF-1.4"),
	}
}

func reason(code string) *string { return &code }

// mustCreate da de alta un activo del fixture y falla el test si no puede.
func mustCreate(t *testing.T, f *fixture, in assets.CreateAssetInput) *assets.Result {
	t.Helper()
	res, err := f.uc.Create(context.Background(), centralActor(), in, nil)
	require.NoError(t, err)
	return res
}

// ──────────────────────────────────────────────────────────────────────────────
// Alta
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_AsignaCorrelativoYEmiteMovimiento(t *testing.T) {
	f := newFixture(t)
	res := mustCreate(t, f, baseCreateInput())

	assert.Equal(t, 1, res.Asset.InternalCode)
	assert.Equal(t, fixInstitution, res.Asset.InstitutionID)
	require.NotEmpty(t, res.MovementID)

	mov, err := f.movRepo.GetByID(res.MovementID)
	require.NoError(t, err)
	require.NotNil(t, mov)
	assert.Equal(t, entity.MovementTypeInventoryCheck, mov.Type)
	require.NotNil(t, mov.ToDependencyID)
	assert.Equal(t, fixDep1, *mov.ToDependencyID)

	audits, err := f.auditRepo.ListByAsset(res.Asset.ID, 50, 0)
	require.NoError(t, err)
	require.Len(t, audits, 1)
	assert.Equal(t, entity.AuditActionCreate, audits[0].Action)
	assert.Nil(t, audits[0].Before, "el alta no tiene estado anterior")

	// El correlativo sigue avanzando activo a activo.
	in2 := baseCreateInput()
	in2.SerialNumber = "SN-002"
	res2 := mustCreate(t, f, in2)
	assert.Equal(t, 2, res2.Asset.InternalCode)
}

func TestCreate_ConEvidenciaEnLinea(t *testing.T) {
	f := newFixture(t)
	in := baseCreateInput()
	in.SerialNumber = ""
	res, err := f.uc.Create(context.Background(), centralActor(), in, pdfEvidence())
	require.NoError(t, err)

	evs, err := f.evRepo.ListByAsset(res.Asset.ID)
	require.NoError(t, err)
	require.Len(t, evs, 1)
	require.NotNil(t, evs[0].MovementID)
	assert.Equal(t, res.MovementID, *evs[0].MovementID,
		"la evidencia del alta queda ligada al movimiento emitido")
}

func TestCreate_EstadoBaja_Rechazado(t *testing.T) {
	f := newFixture(t)
	in := baseCreateInput()
	in.AssetStateID = fixStateBaja
	_, err := f.uc.Create(context.Background(), centralActor(), in, nil)
	assert.Equal(t, "ASSET_CREATE_IN_BAJA", domain.CodeOf(err))
}

func TestCreate_DependenciaDeOtroEstablecimiento_Conflicto(t *testing.T) {
	f := newFixture(t)
	in := baseCreateInput()
	in.DependencyID = fixDep3 // pertenece a est-2
	_, err := f.uc.Create(context.Background(), centralActor(), in, nil)
	assert.Equal(t, "DEPENDENCY_NOT_IN_ESTABLISHMENT", domain.CodeOf(err))
}

func TestCreate_AdminDeOtroEstablecimiento_Denegado(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Create(context.Background(), estActor(fixEst2), baseCreateInput(), nil)
	assert.Equal(t, "FORBIDDEN_SCOPE", domain.CodeOf(err))
}

func TestCreate_TriadaDuplicada_Conflicto(t *testing.T) {
	f := newFixture(t)
	mustCreate(t, f, baseCreateInput())

	_, err := f.uc.Create(context.Background(), centralActor(), baseCreateInput(), nil)
	require.Equal(t, "ASSET_IDENTITY_DUPLICATE", domain.CodeOf(err))

	var de *domain.Error
	require.ErrorAs(t, err, &de)
	assert.NotEmpty(t, de.Details["existingAssetId"])
}

// La identidad se compara sin distinguir mayúsculas.
func TestCreate_TriadaDuplicadaCaseInsensitive_Conflicto(t *testing.T) {
	f := newFixture(t)
	mustCreate(t, f, baseCreateInput())

	in := baseCreateInput()
	in.Brand = "EPSON"
	in.SerialNumber = "sn-001"
	_, err := f.uc.Create(context.Background(), centralActor(), in, nil)
	assert.Equal(t, "ASSET_IDENTITY_DUPLICATE", domain.CodeOf(err))
}

// Una tríada incompleta no puede deduplicarse con confianza: se tolera.
func TestCreate_TriadaIncompleta_NoDeduplica(t *testing.T) {
	f := newFixture(t)
	in := baseCreateInput()
	in.SerialNumber = ""
	mustCreate(t, f, in)
	mustCreate(t, f, in)
}

// ──────────────────────────────────────────────────────────────────────────────
// Retry del correlativo
// ──────────────────────────────────────────────────────────────────────────────

// Contador atrasado respecto de los activos persistidos: el alta colisiona,
// resiembra con max+1 y reintenta sin exponer el conflicto al caller.
func TestCreate_ColisionDeCorrelativo_ResiembraYReintenta(t *testing.T) {
	f := newFixture(t)
	mustCreate(t, f, baseCreateInput()) // ocupa el correlativo 1

	f.seqRepo.mu.Lock()
	f.seqRepo.counters[fixInstitution] = 0 // contador atrasado: Next devolverá 1 otra vez
	f.seqRepo.mu.Unlock()

	in := baseCreateInput()
	in.SerialNumber = "SN-002"
	res, err := f.uc.Create(context.Background(), centralActor(), in, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Asset.InternalCode, "tras la colisión se resiembra con max+1")
}

// Si la colisión persiste tras los reintentos acotados, el conflicto se
// reporta tal cual: nunca se oculta como transitorio.
func TestCreate_ColisionPersistente_AgotaReintentos(t *testing.T) {
	f := newFixture(t)
	mustCreate(t, f, baseCreateInput()) // ocupa el correlativo 1

	// Un escritor concurrente simulado ocupa cada correlativo en cuanto se
	// resiembra: el contador devuelve siempre un código ya tomado.
	f.seqRepo.nextFn = func(string) (int, error) { return 1, nil }
	thief := 0
	f.seqRepo.reseedFn = func(_ string, value int) error {
		thief++
		stolen := &entity.Asset{
			ID:            "asset-concurrente-" + string(rune('a'+thief)),
			InstitutionID: fixInstitution,
			InternalCode:  value,
			Name:          "Alta concurrente",
			Quantity:      1,
		}
		return f.assetRepo.Create(stolen)
	}

	in := baseCreateInput()
	in.SerialNumber = "SN-003"
	_, err := f.uc.Create(context.Background(), centralActor(), in, nil)
	require.Error(t, err)
	assert.Equal(t, "ASSET_INTERNAL_CODE_CONFLICT", domain.CodeOf(err))
}

// Altas concurrentes sobre la misma institución: cada activo recibe un
// correlativo distinto.
func TestCreate_Concurrente_CorrelativosUnicos(t *testing.T) {
	f := newFixture(t)
	const n = 12

	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			in := baseCreateInput()
			in.SerialNumber = "" // sin tríada: solo compite el correlativo
			_, errs[i] = f.uc.Create(context.Background(), centralActor(), in, nil)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "alta %d", i)
	}
	all, err := f.assetRepo.List(repository.AssetFilter{InstitutionID: fixInstitution})
	require.NoError(t, err)
	require.Len(t, all, n)
	seen := map[int]bool{}
	for _, a := range all {
		assert.False(t, seen[a.InternalCode], "correlativo repetido: %d", a.InternalCode)
		seen[a.InternalCode] = true
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Reubicación y traslado
// ──────────────────────────────────────────────────────────────────────────────

func TestRelocate_EmiteMovimientoConOrigenYDestino(t *testing.T) {
	f := newFixture(t)
	res := mustCreate(t, f, baseCreateInput())

	moved, err := f.uc.Relocate(context.Background(), centralActor(), res.Asset.ID, assets.RelocateInput{ToDependencyID: fixDep2})
	require.NoError(t, err)
	assert.Equal(t, fixDep2, moved.Asset.DependencyID)

	mov, err := f.movRepo.GetByID(moved.MovementID)
	require.NoError(t, err)
	assert.Equal(t, entity.MovementTypeRelocation, mov.Type)
	assert.Equal(t, fixDep1, *mov.FromDependencyID)
	assert.Equal(t, fixDep2, *mov.ToDependencyID)
}

func TestRelocate_MismaDependencia_Conflicto(t *testing.T) {
	f := newFixture(t)
	res := mustCreate(t, f, baseCreateInput())
	_, err := f.uc.Relocate(context.Background(), centralActor(), res.Asset.ID, assets.RelocateInput{ToDependencyID: fixDep1})
	assert.Equal(t, "ASSET_RELOCATE_SAME_DEPENDENCY", domain.CodeOf(err))
}

func TestRelocate_CruceDeEstablecimiento_Conflicto(t *testing.T) {
	f := newFixture(t)
	res := mustCreate(t, f, baseCreateInput())
	_, err := f.uc.Relocate(context.Background(), centralActor(), res.Asset.ID, assets.RelocateInput{ToDependencyID: fixDep3})
	assert.Equal(t, "ASSET_RELOCATE_CROSS_ESTABLISHMENT_FORBIDDEN", domain.CodeOf(err))
}

func TestTransfer_RequiereAdminCentral(t *testing.T) {
	f := newFixture(t)
	res := mustCreate(t, f, baseCreateInput())
	_, err := f.uc.Transfer(context.Background(), estActor(fixEst1), res.Asset.ID,
		assets.TransferInput{ToEstablishmentID: fixEst2, ToDependencyID: fixDep3, ReasonCode: reason("OPERATIONAL_NEED")}, pdfEvidence())
	assert.Equal(t, "FORBIDDEN_SCOPE", domain.CodeOf(err))
}

func TestTransfer_ConMotivoYEvidencia(t *testing.T) {
	f := newFixture(t)
	res := mustCreate(t, f, baseCreateInput())

	moved, err := f.uc.Transfer(context.Background(), centralActor(), res.Asset.ID,
		assets.TransferInput{ToEstablishmentID: fixEst2, ToDependencyID: fixDep3, ReasonCode: reason("REASSIGNMENT")}, pdfEvidence())
	require.NoError(t, err)
	assert.Equal(t, fixEst2, moved.Asset.EstablishmentID)
	assert.Equal(t, fixDep3, moved.Asset.DependencyID)

	mov, err := f.movRepo.GetByID(moved.MovementID)
	require.NoError(t, err)
	assert.Equal(t, entity.MovementTypeTransfer, mov.Type)
	assert.Equal(t, "REASSIGNMENT", *mov.ReasonCode)

	evs, err := f.evRepo.ListByAsset(res.Asset.ID)
	require.NoError(t, err)
	require.Len(t, evs, 1)
	assert.Equal(t, moved.MovementID, *evs[0].MovementID)
}

func TestTransfer_SinEvidencia_Rechazado(t *testing.T) {
	f := newFixture(t)
	res := mustCreate(t, f, baseCreateInput())
	_, err := f.uc.Transfer(context.Background(), centralActor(), res.Asset.ID,
		assets.TransferInput{ToEstablishmentID: fixEst2, ToDependencyID: fixDep3, ReasonCode: reason("REASSIGNMENT")}, nil)
	assert.Equal(t, "EVIDENCE_REQUIRED", domain.CodeOf(err))
}

func TestTransfer_SinMotivo_Rechazado(t *testing.T) {
	f := newFixture(t)
	res := mustCreate(t, f, baseCreateInput())
	_, err := f.uc.Transfer(context.Background(), centralActor(), res.Asset.ID,
		assets.TransferInput{ToEstablishmentID: fixEst2, ToDependencyID: fixDep3}, pdfEvidence())
	assert.Equal(t, "MISSING_REASON_CODE", domain.CodeOf(err))
}

// Trasladar dos veces al mismo destino: la segunda es conflicto.
func TestTransfer_MismoDestino_Conflicto(t *testing.T) {
	f := newFixture(t)
	res := mustCreate(t, f, baseCreateInput())

	_, err := f.uc.Transfer(context.Background(), centralActor(), res.Asset.ID,
		assets.TransferInput{ToEstablishmentID: fixEst2, ToDependencyID: fixDep3, ReasonCode: reason("REASSIGNMENT")}, pdfEvidence())
	require.NoError(t, err)

	_, err = f.uc.Transfer(context.Background(), centralActor(), res.Asset.ID,
		assets.TransferInput{ToEstablishmentID: fixEst2, ToDependencyID: fixDep3, ReasonCode: reason("REASSIGNMENT")}, pdfEvidence())
	assert.Equal(t, "ASSET_TRANSFER_SAME_DESTINATION", domain.CodeOf(err))
}

// ──────────────────────────────────────────────────────────────────────────────
// Cambio de estado y baja
// ──────────────────────────────────────────────────────────────────────────────

func TestChangeStatus_CambioSimpleConMotivo(t *testing.T) {
	f := newFixture(t)
	res := mustCreate(t, f, baseCreateInput())

	changed, err := f.uc.ChangeStatus(context.Background(), centralActor(), res.Asset.ID,
		assets.ChangeStatusInput{AssetStateID: fixStateMalo, ReasonCode: reason("DAMAGE")}, nil)
	require.NoError(t, err)
	assert.Equal(t, fixStateMalo, changed.Asset.AssetStateID)
	assert.False(t, changed.Asset.IsDeleted)

	mov, err := f.movRepo.GetByID(changed.MovementID)
	require.NoError(t, err)
	assert.Equal(t, entity.MovementTypeStatusChange, mov.Type)
}

func TestChangeStatus_MismoEstado_Conflicto(t *testing.T) {
	f := newFixture(t)
	res := mustCreate(t, f, baseCreateInput())
	_, err := f.uc.ChangeStatus(context.Background(), centralActor(), res.Asset.ID,
		assets.ChangeStatusInput{AssetStateID: fixStateBueno, ReasonCode: reason("NORMAL_WEAR")}, nil)
	assert.Equal(t, "ASSET_STATUS_SAME_STATE", domain.CodeOf(err))
}

func TestChangeStatus_BajaSinEvidencia_Rechazada(t *testing.T) {
	f := newFixture(t)
	res := mustCreate(t, f, baseCreateInput())
	_, err := f.uc.ChangeStatus(context.Background(), centralActor(), res.Asset.ID,
		assets.ChangeStatusInput{AssetStateID: fixStateBaja, ReasonCode: reason("END_OF_LIFE")}, nil)
	assert.Equal(t, "EVIDENCE_REQUIRED", domain.CodeOf(err))
}

func TestChangeStatus_BajaMarcaEliminacionLogica(t *testing.T) {
	f := newFixture(t)
	res := mustCreate(t, f, baseCreateInput())

	actor := centralActor()
	deleted, err := f.uc.ChangeStatus(context.Background(), actor, res.Asset.ID,
		assets.ChangeStatusInput{AssetStateID: fixStateBaja, ReasonCode: reason("END_OF_LIFE")}, pdfEvidence())
	require.NoError(t, err)
	assert.True(t, deleted.Asset.IsDeleted)
	require.NotNil(t, deleted.Asset.DeletedAt)
	require.NotNil(t, deleted.Asset.DeletedBy)
	assert.Equal(t, actor.ID, *deleted.Asset.DeletedBy)
}

// El motivo de baja debe salir del vocabulario STATUS_CHANGE; nunca se aplica
// uno por defecto.
func TestChangeStatus_MotivoFueraDeVocabulario_Rechazado(t *testing.T) {
	f := newFixture(t)
	res := mustCreate(t, f, baseCreateInput())
	_, err := f.uc.ChangeStatus(context.Background(), centralActor(), res.Asset.ID,
		assets.ChangeStatusInput{AssetStateID: fixStateBaja, ReasonCode: reason("ASSET_RECOVERED")}, pdfEvidence())
	assert.Equal(t, "INVALID_REASON_CODE", domain.CodeOf(err))
}

func TestChangeStatus_SobreActivoDadoDeBaja_ExigeRestauracion(t *testing.T) {
	f := newFixture(t)
	res := mustCreate(t, f, baseCreateInput())
	mustDecommission(t, f, res.Asset.ID)

	_, err := f.uc.ChangeStatus(context.Background(), centralActor(), res.Asset.ID,
		assets.ChangeStatusInput{AssetStateID: fixStateMalo, ReasonCode: reason("DAMAGE")}, nil)
	assert.Equal(t, "ASSET_STATUS_DELETED_REQUIRES_RESTORE", domain.CodeOf(err))

	// Darlo de baja otra vez tampoco procede.
	_, err = f.uc.ChangeStatus(context.Background(), centralActor(), res.Asset.ID,
		assets.ChangeStatusInput{AssetStateID: fixStateBaja, ReasonCode: reason("END_OF_LIFE")}, pdfEvidence())
	assert.Equal(t, "ASSET_STATUS_ALREADY_DELETED", domain.CodeOf(err))
}

func mustDecommission(t *testing.T, f *fixture, assetID string) {
	t.Helper()
	_, err := f.uc.ChangeStatus(context.Background(), centralActor(), assetID,
		assets.ChangeStatusInput{AssetStateID: fixStateBaja, ReasonCode: reason("END_OF_LIFE")}, pdfEvidence())
	require.NoError(t, err)
}

// ──────────────────────────────────────────────────────────────────────────────
// Restauración
// ──────────────────────────────────────────────────────────────────────────────

func TestRestore_ReincorporaConEstadoBuenoPorDefecto(t *testing.T) {
	f := newFixture(t)
	res := mustCreate(t, f, baseCreateInput())
	mustDecommission(t, f, res.Asset.ID)

	restored, err := f.uc.Restore(context.Background(), centralActor(), res.Asset.ID,
		assets.RestoreInput{ReasonCode: reason("ASSET_RECOVERED")}, pdfEvidence())
	require.NoError(t, err)
	assert.False(t, restored.Asset.IsDeleted)
	assert.Nil(t, restored.Asset.DeletedAt)
	assert.Nil(t, restored.Asset.DeletedBy)
	assert.Equal(t, fixStateBueno, restored.Asset.AssetStateID)

	mov, err := f.movRepo.GetByID(restored.MovementID)
	require.NoError(t, err)
	assert.Equal(t, entity.MovementTypeStatusChange, mov.Type)
	assert.Equal(t, "ASSET_RECOVERED", *mov.ReasonCode)
}

func TestRestore_ActivoVigente_Conflicto(t *testing.T) {
	f := newFixture(t)
	res := mustCreate(t, f, baseCreateInput())
	_, err := f.uc.Restore(context.Background(), centralActor(), res.Asset.ID,
		assets.RestoreInput{ReasonCode: reason("ASSET_RECOVERED")}, pdfEvidence())
	assert.Equal(t, "ASSET_RESTORE_NOT_DELETED", domain.CodeOf(err))
}

func TestRestore_EstadoDestinoBaja_Rechazado(t *testing.T) {
	f := newFixture(t)
	res := mustCreate(t, f, baseCreateInput())
	mustDecommission(t, f, res.Asset.ID)

	_, err := f.uc.Restore(context.Background(), centralActor(), res.Asset.ID,
		assets.RestoreInput{AssetStateID: fixStateBaja, ReasonCode: reason("ASSET_RECOVERED")}, pdfEvidence())
	assert.Equal(t, "ASSET_RESTORE_INVALID_STATE", domain.CodeOf(err))
}

// La baja libera la tríada; la restauración vuelve a reclamarla. Si otro
// activo la ocupó entretanto, la restauración choca.
func TestRestore_TriadaOcupadaTrasLaBaja_Conflicto(t *testing.T) {
	f := newFixture(t)
	res := mustCreate(t, f, baseCreateInput())
	mustDecommission(t, f, res.Asset.ID)

	// La tríada quedó libre: otro activo puede reclamarla.
	mustCreate(t, f, baseCreateInput())

	_, err := f.uc.Restore(context.Background(), centralActor(), res.Asset.ID,
		assets.RestoreInput{ReasonCode: reason("ASSET_RECOVERED")}, pdfEvidence())
	assert.Equal(t, "ASSET_IDENTITY_DUPLICATE", domain.CodeOf(err))
}

// ──────────────────────────────────────────────────────────────────────────────
// Actualización y evidencia posterior
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdate_CambioDeIdentidad_ReaplicaUnicidad(t *testing.T) {
	f := newFixture(t)
	first := mustCreate(t, f, baseCreateInput())

	in2 := baseCreateInput()
	in2.SerialNumber = "SN-002"
	second := mustCreate(t, f, in2)

	// Intentar tomar la tríada del primero.
	serial := "SN-001"
	_, err := f.uc.Update(context.Background(), centralActor(), second.Asset.ID,
		assets.UpdateAssetInput{SerialNumber: &serial})
	assert.Equal(t, "ASSET_IDENTITY_DUPLICATE", domain.CodeOf(err))
	_ = first
}

func TestUpdate_EmiteInventoryCheckYAuditoria(t *testing.T) {
	f := newFixture(t)
	res := mustCreate(t, f, baseCreateInput())

	name := "Proyector Epson (sala audiovisual)"
	updated, err := f.uc.Update(context.Background(), centralActor(), res.Asset.ID,
		assets.UpdateAssetInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Asset.Name)

	mov, err := f.movRepo.GetByID(updated.MovementID)
	require.NoError(t, err)
	assert.Equal(t, entity.MovementTypeInventoryCheck, mov.Type)

	audits, err := f.auditRepo.ListByAsset(res.Asset.ID, 50, 0)
	require.NoError(t, err)
	require.Len(t, audits, 2)
	assert.Equal(t, entity.AuditActionUpdate, audits[1].Action)
	assert.NotNil(t, audits[1].Before)
}

func TestUpdate_ActivoDadoDeBaja_Bloqueado(t *testing.T) {
	f := newFixture(t)
	res := mustCreate(t, f, baseCreateInput())
	mustDecommission(t, f, res.Asset.ID)

	name := "otro nombre"
	_, err := f.uc.Update(context.Background(), centralActor(), res.Asset.ID,
		assets.UpdateAssetInput{Name: &name})
	assert.Equal(t, "ASSET_STATUS_DELETED_REQUIRES_RESTORE", domain.CodeOf(err))
}

func TestAttachEvidence_LigadaAMovimientoPropio(t *testing.T) {
	f := newFixture(t)
	res := mustCreate(t, f, baseCreateInput())

	ev, err := f.uc.AttachEvidence(context.Background(), centralActor(), res.Asset.ID, &res.MovementID, pdfEvidence())
	require.NoError(t, err)
	require.NotNil(t, ev.MovementID)
	assert.Equal(t, res.MovementID, *ev.MovementID)
}

func TestAttachEvidence_MovimientoDeOtroActivo_NoEncontrado(t *testing.T) {
	f := newFixture(t)
	first := mustCreate(t, f, baseCreateInput())

	in2 := baseCreateInput()
	in2.SerialNumber = "SN-002"
	second := mustCreate(t, f, in2)

	_, err := f.uc.AttachEvidence(context.Background(), centralActor(), second.Asset.ID, &first.MovementID, pdfEvidence())
	assert.Equal(t, "MOVEMENT_NOT_FOUND", domain.CodeOf(err))
}
