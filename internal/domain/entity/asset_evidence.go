package entity

import "time"

// Tipos de documento de evidencia.
const (
	EvidenceDocFoto    = "FOTO"
	EvidenceDocActa    = "ACTA"
	EvidenceDocFactura = "FACTURA"
	EvidenceDocOtro    = "OTRO"
)

// EvidenceDocTypes conjunto cerrado de tipos de documento válidos.
var EvidenceDocTypes = map[string]bool{
	EvidenceDocFoto:    true,
	EvidenceDocActa:    true,
	EvidenceDocFactura: true,
	EvidenceDocOtro:    true,
}

// EvidenceMimeTypes tipos MIME admitidos para el archivo adjunto.
var EvidenceMimeTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"application/pdf": true,
}

// AssetEvidence es un documento probatorio adjunto a un activo y, cuando
// corrobora una transición sensible, al movimiento que la produjo. Se
// persiste en la misma transacción que el movimiento; nunca queda huérfana.
type AssetEvidence struct {
	ID         string
	AssetID    string
	MovementID *string
	DocType    string
	MimeType   string
	FileName   string
	SizeBytes  int64
	Content    []byte
	UploadedBy string
	CreatedAt  time.Time
}
