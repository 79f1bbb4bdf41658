package audit

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/activos-cl/patrimonio-api/internal/domain/entity"
	"github.com/activos-cl/patrimonio-api/internal/domain/repository"
)

// Snapshot serializa el activo a JSON para el rastro de auditoría. nil
// produce nil (no hay estado anterior en CREATE).
func Snapshot(a *entity.Asset) (json.RawMessage, error) {
	if a == nil {
		return nil, nil
	}
	raw, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("serializar snapshot de activo: %w", err)
	}
	return raw, nil
}

// Record persiste una entrada de auditoría con instantáneas antes/después
// usando el repositorio atado a la transacción en curso. before es el activo
// tal como estaba al iniciar la mutación (nil en CREATE).
func Record(repo repository.AuditRepository, action string, before json.RawMessage, after *entity.Asset, userID string) error {
	afterRaw, err := Snapshot(after)
	if err != nil {
		return err
	}
	return repo.Create(&entity.AssetAudit{
		ID:        uuid.New().String(),
		AssetID:   after.ID,
		Action:    action,
		Before:    before,
		After:     afterRaw,
		UserID:    userID,
		CreatedAt: time.Now(),
	})
}
