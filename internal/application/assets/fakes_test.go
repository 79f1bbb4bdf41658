package assets_test

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/activos-cl/patrimonio-api/internal/application/assets"
	"github.com/activos-cl/patrimonio-api/internal/domain"
	"github.com/activos-cl/patrimonio-api/internal/domain/entity"
	"github.com/activos-cl/patrimonio-api/internal/domain/repository"
)

// Dobles en memoria de los puertos de persistencia. Replican los invariantes
// que en producción impone la base de datos (correlativo único por
// institución) para poder ejercitar el retry del alta sin una DB real.

type memAssetRepo struct {
	mu     sync.Mutex
	assets map[string]*entity.Asset
}

func newMemAssetRepo() *memAssetRepo {
	return &memAssetRepo{assets: map[string]*entity.Asset{}}
}

func (r *memAssetRepo) Create(a *entity.Asset) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, other := range r.assets {
		if other.InstitutionID == a.InstitutionID && other.InternalCode == a.InternalCode {
			return domain.NewConflict("ASSET_INTERNAL_CODE_CONFLICT", "correlativo interno duplicado")
		}
	}
	clone := *a
	r.assets[a.ID] = &clone
	return nil
}

func (r *memAssetRepo) GetByID(id string) (*entity.Asset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.assets[id]
	if !ok {
		return nil, nil
	}
	clone := *a
	return &clone, nil
}

func (r *memAssetRepo) Update(a *entity.Asset) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *a
	r.assets[a.ID] = &clone
	return nil
}

func (r *memAssetRepo) FindActiveByIdentity(institutionID, serial, brand, model, excludeID string) (*entity.Asset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.assets {
		if a.ID == excludeID || a.IsDeleted || a.InstitutionID != institutionID {
			continue
		}
		if strings.EqualFold(a.SerialNumber, serial) &&
			strings.EqualFold(a.Brand, brand) &&
			strings.EqualFold(a.Model, model) {
			clone := *a
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *memAssetRepo) MaxInternalCode(institutionID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	max := 0
	for _, a := range r.assets {
		if a.InstitutionID == institutionID && a.InternalCode > max {
			max = a.InternalCode
		}
	}
	return max, nil
}

func (r *memAssetRepo) List(filter repository.AssetFilter) ([]*entity.Asset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Asset
	for _, a := range r.assets {
		if filter.InstitutionID != "" && a.InstitutionID != filter.InstitutionID {
			continue
		}
		if filter.EstablishmentID != "" && a.EstablishmentID != filter.EstablishmentID {
			continue
		}
		if !filter.IncludeDeleted && a.IsDeleted {
			continue
		}
		clone := *a
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].InternalCode < out[j].InternalCode })
	return out, nil
}

func (r *memAssetRepo) CountActiveByEstablishment(establishmentID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, a := range r.assets {
		if a.EstablishmentID == establishmentID && !a.IsDeleted {
			n++
		}
	}
	return n, nil
}

func (r *memAssetRepo) CountActiveByDependency(dependencyID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, a := range r.assets {
		if a.DependencyID == dependencyID && !a.IsDeleted {
			n++
		}
	}
	return n, nil
}

type memMovementRepo struct {
	mu        sync.Mutex
	movements []*entity.Movement
}

func (r *memMovementRepo) Create(m *entity.Movement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *m
	r.movements = append(r.movements, &clone)
	return nil
}

func (r *memMovementRepo) GetByID(id string) (*entity.Movement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.movements {
		if m.ID == id {
			clone := *m
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *memMovementRepo) ListByAsset(assetID string, limit, offset int) ([]*entity.Movement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Movement
	for i := len(r.movements) - 1; i >= 0; i-- {
		if r.movements[i].AssetID == assetID {
			clone := *r.movements[i]
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *memMovementRepo) List(filter repository.MovementFilter) ([]*entity.Movement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Movement
	for _, m := range r.movements {
		if filter.AssetID != "" && m.AssetID != filter.AssetID {
			continue
		}
		if filter.Type != "" && m.Type != filter.Type {
			continue
		}
		clone := *m
		out = append(out, &clone)
	}
	return out, nil
}

type memAuditRepo struct {
	mu      sync.Mutex
	entries []*entity.AssetAudit
}

func (r *memAuditRepo) Create(a *entity.AssetAudit) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *a
	r.entries = append(r.entries, &clone)
	return nil
}

func (r *memAuditRepo) ListByAsset(assetID string, limit, offset int) ([]*entity.AssetAudit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.AssetAudit
	for _, e := range r.entries {
		if e.AssetID == assetID {
			clone := *e
			out = append(out, &clone)
		}
	}
	return out, nil
}

type memEvidenceRepo struct {
	mu        sync.Mutex
	evidences []*entity.AssetEvidence
}

func (r *memEvidenceRepo) Create(e *entity.AssetEvidence) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *e
	r.evidences = append(r.evidences, &clone)
	return nil
}

func (r *memEvidenceRepo) GetByID(id string) (*entity.AssetEvidence, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.evidences {
		if e.ID == id {
			clone := *e
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *memEvidenceRepo) ListByAsset(assetID string) ([]*entity.AssetEvidence, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.AssetEvidence
	for _, e := range r.evidences {
		if e.AssetID == assetID {
			clone := *e
			clone.Content = nil
			out = append(out, &clone)
		}
	}
	return out, nil
}

// memSequenceRepo replica el contador upsert por institución. nextFn y
// reseedFn permiten forzar colisiones persistentes en los tests de retry.
type memSequenceRepo struct {
	mu       sync.Mutex
	counters map[string]int
	nextFn   func(institutionID string) (int, error)
	reseedFn func(institutionID string, value int) error
}

func newMemSequenceRepo() *memSequenceRepo {
	return &memSequenceRepo{counters: map[string]int{}}
}

func (r *memSequenceRepo) Next(institutionID string) (int, error) {
	if r.nextFn != nil {
		return r.nextFn(institutionID)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counters[institutionID]++
	return r.counters[institutionID], nil
}

func (r *memSequenceRepo) Reseed(institutionID string, value int) error {
	if r.reseedFn != nil {
		return r.reseedFn(institutionID, value)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counters[institutionID] = value
	return nil
}

type memCatalogRepo struct {
	types  map[string]*entity.AssetType
	states map[string]*entity.AssetState
	items  map[string]*entity.CatalogItem
}

func (r *memCatalogRepo) GetAssetTypeByID(id string) (*entity.AssetType, error) {
	return r.types[id], nil
}

func (r *memCatalogRepo) GetAssetStateByID(id string) (*entity.AssetState, error) {
	return r.states[id], nil
}

func (r *memCatalogRepo) GetAssetStateByCode(code string) (*entity.AssetState, error) {
	for _, s := range r.states {
		if s.Code == code {
			return s, nil
		}
	}
	return nil, nil
}

func (r *memCatalogRepo) GetCatalogItemByID(id string) (*entity.CatalogItem, error) {
	return r.items[id], nil
}

func (r *memCatalogRepo) ListAssetTypes() ([]*entity.AssetType, error) {
	var out []*entity.AssetType
	for _, t := range r.types {
		out = append(out, t)
	}
	return out, nil
}

func (r *memCatalogRepo) ListAssetStates() ([]*entity.AssetState, error) {
	var out []*entity.AssetState
	for _, s := range r.states {
		out = append(out, s)
	}
	return out, nil
}

type memEstablishmentRepo struct {
	mu             sync.Mutex
	establishments map[string]*entity.Establishment
}

func (r *memEstablishmentRepo) Create(e *entity.Establishment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *e
	r.establishments[e.ID] = &clone
	return nil
}

func (r *memEstablishmentRepo) GetByID(id string) (*entity.Establishment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.establishments[id]
	if !ok {
		return nil, nil
	}
	clone := *e
	return &clone, nil
}

func (r *memEstablishmentRepo) ListByInstitution(institutionID string, limit, offset int) ([]*entity.Establishment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Establishment
	for _, e := range r.establishments {
		if e.InstitutionID == institutionID {
			clone := *e
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *memEstablishmentRepo) SetActive(id string, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.establishments[id]; ok {
		e.IsActive = active
	}
	return nil
}

type memDependencyRepo struct {
	mu           sync.Mutex
	dependencies map[string]*entity.Dependency
}

func (r *memDependencyRepo) Create(d *entity.Dependency) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *d
	r.dependencies[d.ID] = &clone
	return nil
}

func (r *memDependencyRepo) GetByID(id string) (*entity.Dependency, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.dependencies[id]
	if !ok {
		return nil, nil
	}
	clone := *d
	return &clone, nil
}

func (r *memDependencyRepo) ListByEstablishment(establishmentID string, limit, offset int) ([]*entity.Dependency, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Dependency
	for _, d := range r.dependencies {
		if d.EstablishmentID == establishmentID {
			clone := *d
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *memDependencyRepo) ListActiveByEstablishment(establishmentID string) ([]*entity.Dependency, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Dependency
	for _, d := range r.dependencies {
		if d.EstablishmentID == establishmentID && d.IsActive {
			clone := *d
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *memDependencyRepo) SetActive(id string, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.dependencies[id]; ok {
		d.IsActive = active
	}
	return nil
}

// fakeTxRunner pasa los mismos repositorios en memoria a la función
// transaccional. No hay rollback real: los tests que ejercitan fallas
// verifican el error devuelto, no el estado revertido.
type fakeTxRunner struct {
	assetRepo    *memAssetRepo
	movRepo      *memMovementRepo
	auditRepo    *memAuditRepo
	evidenceRepo *memEvidenceRepo
	seqRepo      *memSequenceRepo
}

var _ assets.TxRunner = (*fakeTxRunner)(nil)

func (tr *fakeTxRunner) Run(ctx context.Context, fn func(
	assetRepo repository.AssetRepository,
	movRepo repository.MovementRepository,
	auditRepo repository.AuditRepository,
	evidenceRepo repository.EvidenceRepository,
	seqRepo repository.SequenceRepository,
) error) error {
	return fn(tr.assetRepo, tr.movRepo, tr.auditRepo, tr.evidenceRepo, tr.seqRepo)
}
