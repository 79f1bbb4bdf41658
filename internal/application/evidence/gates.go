package evidence

import (
	"time"

	"github.com/google/uuid"

	"github.com/activos-cl/patrimonio-api/internal/domain"
	"github.com/activos-cl/patrimonio-api/internal/domain/entity"
)

// Input es la evidencia tal como llega de la capa HTTP (archivo multipart ya
// leído más sus metadatos).
type Input struct {
	DocType  string
	MimeType string
	FileName string
	Content  []byte
}

// RequireReasonCode valida que la transición sensible lleve un motivo del
// vocabulario cerrado de su ámbito. Nunca se aplica un valor por defecto:
// motivo ausente y motivo inválido son errores del cliente.
func RequireReasonCode(scope string, code *string) (string, error) {
	vocabulary, ok := entity.ReasonVocabulary[scope]
	if !ok {
		return "", domain.NewValidation("INVALID_REASON_CODE", "ámbito de motivo desconocido: "+scope)
	}
	if code == nil || *code == "" {
		return "", domain.NewValidation("MISSING_REASON_CODE", "la operación requiere un código de motivo")
	}
	if !vocabulary[*code] {
		return "", domain.NewValidation("INVALID_REASON_CODE",
			"código de motivo fuera del vocabulario "+scope).
			WithDetails(map[string]any{"reasonCode": *code, "scope": scope})
	}
	return *code, nil
}

// ParseRequired valida y construye la evidencia obligatoria de una transición
// sensible. El movimiento se asocia después, dentro de la misma transacción.
func ParseRequired(in *Input, assetID, uploadedBy string) (*entity.AssetEvidence, error) {
	if in == nil || len(in.Content) == 0 {
		return nil, domain.NewValidation("EVIDENCE_REQUIRED", "la operación requiere un documento de evidencia adjunto")
	}
	if !entity.EvidenceDocTypes[in.DocType] {
		return nil, domain.NewValidation("INVALID_EVIDENCE_DOC_TYPE",
			"tipo de documento inválido: "+in.DocType)
	}
	if !entity.EvidenceMimeTypes[in.MimeType] {
		return nil, domain.NewValidation("INVALID_EVIDENCE_MIME_TYPE",
			"tipo MIME no admitido: "+in.MimeType)
	}
	now := time.Now()
	return &entity.AssetEvidence{
		ID:         uuid.New().String(),
		AssetID:    assetID,
		DocType:    in.DocType,
		MimeType:   in.MimeType,
		FileName:   in.FileName,
		SizeBytes:  int64(len(in.Content)),
		Content:    in.Content,
		UploadedBy: uploadedBy,
		CreatedAt:  now,
	}, nil
}
