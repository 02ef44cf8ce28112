// Package export arma los artefactos descargables: el zip con los archivos
// originales de los registros y los PDFs tabulares de historial/logs.
package export

import (
	"archive/zip"
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"

	"pet-health-records/internal/domain/records"
)

var (
	// ErrNothingToExport: export sin datos devuelve error tipado,
	// nunca un artefacto vacío.
	ErrNothingToExport = errors.New("nothing to export")
)

// BulkArchive decodifica cada (filename, base64) de cada registro y lo mete
// en un único zip. Colisiones de nombre entre registros distintos reciben
// sufijo numérico en vez de pisarse.
func BulkArchive(recs []records.MedicalRecord) ([]byte, error) {
	if len(recs) == 0 {
		return nil, ErrNothingToExport
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	seen := map[string]int{}
	total := 0

	for _, rec := range recs {
		names := make([]string, 0, len(rec.Files))
		for name := range rec.Files {
			names = append(names, name)
		}
		// orden estable: las colisiones reciben siempre el mismo sufijo
		sort.Strings(names)

		for _, name := range names {
			payload := rec.Files[name]
			data, err := base64.StdEncoding.DecodeString(payload)
			if err != nil {
				_ = zw.Close()
				return nil, fmt.Errorf("decode %s of record %s: %w", name, rec.ID, err)
			}

			entry := uniqueName(seen, sanitizeName(name))
			w, err := zw.Create(entry)
			if err != nil {
				_ = zw.Close()
				return nil, fmt.Errorf("zip entry %s: %w", entry, err)
			}
			if _, err := w.Write(data); err != nil {
				_ = zw.Close()
				return nil, fmt.Errorf("zip write %s: %w", entry, err)
			}
			total++
		}
	}

	if total == 0 {
		_ = zw.Close()
		return nil, ErrNothingToExport
	}

	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// sanitizeName evita traversal y separadores en nombres subidos por usuarios.
func sanitizeName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		return "file"
	}
	return name
}

func uniqueName(seen map[string]int, name string) string {
	n := seen[name]
	seen[name] = n + 1
	if n == 0 {
		return name
	}

	ext := path.Ext(name)
	base := strings.TrimSuffix(name, ext)
	return fmt.Sprintf("%s (%d)%s", base, n+1, ext)
}
