package dto

import (
	"time"

	"github.com/activos-cl/patrimonio-api/internal/domain/entity"
)

// ListMovementsRequest query params para GET /api/movements.
type ListMovementsRequest struct {
	AssetID         string `query:"asset_id"`
	EstablishmentID string `query:"establishment_id"`
	Type            string `query:"type"`
	From            string `query:"from"` // YYYY-MM-DD
	To              string `query:"to"`
	PageRequest
}

// MovementResponse fila del libro de movimientos en respuestas.
type MovementResponse struct {
	ID               string    `json:"id"`
	AssetID          string    `json:"asset_id"`
	Type             string    `json:"type"`
	ReasonCode       *string   `json:"reason_code,omitempty"`
	FromDependencyID *string   `json:"from_dependency_id,omitempty"`
	ToDependencyID   *string   `json:"to_dependency_id,omitempty"`
	UserID           string    `json:"user_id"`
	CreatedAt        time.Time `json:"created_at"`
}

// MovementListResponse lista paginada de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// EvidenceResponse metadatos de una evidencia (el contenido se descarga aparte).
type EvidenceResponse struct {
	ID         string    `json:"id"`
	AssetID    string    `json:"asset_id"`
	MovementID *string   `json:"movement_id,omitempty"`
	DocType    string    `json:"doc_type"`
	MimeType   string    `json:"mime_type"`
	FileName   string    `json:"file_name"`
	SizeBytes  int64     `json:"size_bytes"`
	UploadedBy string    `json:"uploaded_by"`
	CreatedAt  time.Time `json:"created_at"`
}

// AuditEntryResponse entrada del rastro de auditoría con instantáneas JSON.
type AuditEntryResponse struct {
	ID        string    `json:"id"`
	AssetID   string    `json:"asset_id"`
	Action    string    `json:"action"`
	Before    any       `json:"before,omitempty"`
	After     any       `json:"after,omitempty"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// ToMovementResponse mapea la entidad a su representación HTTP.
func ToMovementResponse(m *entity.Movement) MovementResponse {
	return MovementResponse{
		ID:               m.ID,
		AssetID:          m.AssetID,
		Type:             m.Type,
		ReasonCode:       m.ReasonCode,
		FromDependencyID: m.FromDependencyID,
		ToDependencyID:   m.ToDependencyID,
		UserID:           m.UserID,
		CreatedAt:        m.CreatedAt,
	}
}

// ToEvidenceResponse mapea la entidad a sus metadatos HTTP.
func ToEvidenceResponse(e *entity.AssetEvidence) EvidenceResponse {
	return EvidenceResponse{
		ID:         e.ID,
		AssetID:    e.AssetID,
		MovementID: e.MovementID,
		DocType:    e.DocType,
		MimeType:   e.MimeType,
		FileName:   e.FileName,
		SizeBytes:  e.SizeBytes,
		UploadedBy: e.UploadedBy,
		CreatedAt:  e.CreatedAt,
	}
}
