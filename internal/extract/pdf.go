package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

var _ Extractor = (*PDFExtractor)(nil)

// PDFExtractor lee la capa de texto de un PDF.
// Solo funciona con PDFs "text-layer": un escaneo sin capa de texto
// devuelve texto vacío (con warning), no error.
type PDFExtractor struct{}

func NewPDFExtractor() *PDFExtractor { return &PDFExtractor{} }

func (e *PDFExtractor) Extract(ctx context.Context, data []byte) (Result, error) {
	if len(data) == 0 {
		return Result{}, errors.New("empty pdf content")
	}

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Result{}, fmt.Errorf("open pdf: %w", err)
	}

	var sb strings.Builder
	warnings := []string(nil)

	for i := 1; i <= r.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			// página corrupta: seguimos con el resto
			warnings = append(warnings, fmt.Sprintf("page %d: %v", i, err))
			continue
		}
		pageText = strings.TrimSpace(pageText)
		if pageText == "" {
			continue
		}

		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(pageText)
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		warnings = append(warnings, "pdf has no text layer")
	}

	return Result{
		Text:     text,
		Pages:    r.NumPage(),
		Method:   "pdf-text",
		Warnings: warnings,
	}, nil
}
