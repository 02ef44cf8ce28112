// Package extract convierte bytes de documentos (PDF con capa de texto,
// imágenes rasterizadas) en texto best-effort para indexar registros médicos.
//
// La extracción es no-fatal por contrato: un PDF escaneado o una imagen
// ilegible degradan a texto vacío + warning, nunca abortan la ingesta.
package extract

import (
	"context"
	"mime"
	"strings"
)

// Kind clasifica el MIME declarado del archivo subido.
type Kind string

const (
	KindPDF         Kind = "pdf"
	KindImage       Kind = "image"
	KindUnsupported Kind = "unsupported"
)

// ClassifyMIME mapea un media type declarado a {pdf, image, unsupported}.
// Acepta parámetros tipo "image/jpeg; charset=binary".
func ClassifyMIME(mimeType string) Kind {
	mt, _, err := mime.ParseMediaType(strings.TrimSpace(mimeType))
	if err != nil {
		mt = strings.ToLower(strings.TrimSpace(mimeType))
	}

	switch {
	case mt == "application/pdf":
		return KindPDF
	case strings.HasPrefix(mt, "image/"):
		return KindImage
	default:
		return KindUnsupported
	}
}

// Result es el texto extraído más metadata del intento.
type Result struct {
	Text     string
	Pages    int
	Method   string // "pdf-text" | "image-ocr"
	Warnings []string
}

// Extractor saca texto de los bytes de un documento.
// Un error indica que el intento falló; el caller decide si degrada.
type Extractor interface {
	Extract(ctx context.Context, data []byte) (Result, error)
}
