package http

import (
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/activos-cl/patrimonio-api/internal/application/evidence"
	"github.com/activos-cl/patrimonio-api/internal/domain"
)

// parseBody decodifica el cuerpo de la petición en dst. Las operaciones con
// evidencia llegan como multipart/form-data con la parte "data" en JSON; el
// resto como application/json plano.
func parseBody(c *fiber.Ctx, dst any) error {
	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		data := c.FormValue("data")
		if data == "" {
			return domain.NewValidation("INVALID_BODY", "falta la parte JSON 'data' del multipart")
		}
		if err := json.Unmarshal([]byte(data), dst); err != nil {
			return domain.NewValidation("INVALID_BODY", "parte 'data' malformada: "+err.Error())
		}
		return nil
	}
	if err := c.BodyParser(dst); err != nil {
		return domain.NewValidation("INVALID_BODY", "cuerpo inválido")
	}
	return nil
}

// parseEvidenceForm extrae la evidencia adjunta del multipart: archivo
// "evidence" y campo "evidence_doc_type". Devuelve nil si no viene archivo;
// las reglas de obligatoriedad las aplica el caso de uso.
func parseEvidenceForm(c *fiber.Ctx) (*evidence.Input, error) {
	fh, err := c.FormFile("evidence")
	if err != nil {
		return nil, nil
	}
	f, err := fh.Open()
	if err != nil {
		return nil, domain.NewValidation("INVALID_EVIDENCE_FILE", "no se pudo leer el archivo de evidencia")
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		return nil, domain.NewValidation("INVALID_EVIDENCE_FILE", "no se pudo leer el archivo de evidencia")
	}
	return &evidence.Input{
		DocType:  c.FormValue("evidence_doc_type"),
		MimeType: fh.Header.Get("Content-Type"),
		FileName: fh.Filename,
		Content:  content,
	}, nil
}

// rawJSON expone una instantánea json.RawMessage como valor inline en la
// respuesta (nil si está vacía, para que omitempty la suprima).
func rawJSON(b json.RawMessage) any {
	if len(b) == 0 {
		return nil
	}
	return b
}

// parseDate parsea una fecha YYYY-MM-DD. Vacío devuelve el cero de time.Time.
func parseDate(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, domain.NewValidation("INVALID_DATE", "formato de fecha inválido en "+field+" (se espera YYYY-MM-DD)")
	}
	return t, nil
}

// parseDatePtr como parseDate pero devuelve nil para vacío.
func parseDatePtr(field, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := parseDate(field, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
