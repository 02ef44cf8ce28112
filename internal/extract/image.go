package extract

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
)

var _ Extractor = (*ImageExtractor)(nil)

// reBoxNoise limpia líneas basura típicas de OCR sobre bordes/sellos.
var reBoxNoise = regexp.MustCompile(`(?m)^[\s|_\-=~]+$`)

// OCRConfig configura la pasada de OCR sobre imágenes.
type OCRConfig struct {
	Tesseract   string // binario o path absoluto; vacío => "tesseract"
	Lang        string // default "eng"
	TessdataDir string
}

// ImageExtractor corre una pasada de OCR (tesseract) sobre bytes raster.
// La precisión depende de resolución/contraste del input; no hay retry.
type ImageExtractor struct {
	cfg    OCRConfig
	runner Runner
}

func NewImageExtractor(cfg OCRConfig) *ImageExtractor {
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Lang == "" {
		cfg.Lang = "eng"
	}
	return &ImageExtractor{cfg: cfg, runner: execRunner{}}
}

// WithRunner inyecta un runner alternativo (tests).
func (e *ImageExtractor) WithRunner(r Runner) *ImageExtractor {
	e.runner = r
	return e
}

func (e *ImageExtractor) Extract(ctx context.Context, data []byte) (Result, error) {
	if len(data) == 0 {
		return Result{}, errors.New("empty image content")
	}

	// tesseract lee de archivo; volcamos los bytes a un tmp.
	tmp, err := os.CreateTemp("", "ocr-*"+sniffImageExt(data))
	if err != nil {
		return Result{}, fmt.Errorf("ocr tmp file: %w", err)
	}
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}()

	if _, err := tmp.Write(data); err != nil {
		return Result{}, fmt.Errorf("ocr tmp write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return Result{}, fmt.Errorf("ocr tmp close: %w", err)
	}

	args := []string{tmp.Name(), "stdout", "-l", e.cfg.Lang}
	if e.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", e.cfg.TessdataDir)
	}

	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, args...)
	if err != nil {
		return Result{Warnings: []string{strings.TrimSpace(string(errb))}},
			fmt.Errorf("tesseract: %w", err)
	}

	txt := normalizeText(reBoxNoise.ReplaceAllString(string(out), ""))

	var warnings []string
	if txt == "" {
		warnings = append(warnings, "ocr produced no text")
	}

	return Result{
		Text:     txt,
		Pages:    1,
		Method:   "image-ocr",
		Warnings: warnings,
	}, nil
}

// sniffImageExt da una extensión razonable para el tmp según magic bytes.
// Tesseract no la necesita estrictamente, pero ayuda a diagnósticos.
func sniffImageExt(data []byte) string {
	switch {
	case len(data) >= 3 && data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF:
		return ".jpg"
	case len(data) >= 8 && string(data[:8]) == "\x89PNG\r\n\x1a\n":
		return ".png"
	default:
		return ".img"
	}
}

// normalizeText colapsa espacios raros del OCR sin perder saltos de línea.
func normalizeText(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for _, ln := range lines {
		ln = strings.Join(strings.Fields(ln), " ")
		if ln == "" {
			continue
		}
		out = append(out, ln)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
