package export

import (
	"bytes"
	"fmt"
	"time"

	"pet-health-records/internal/domain/logs"
	"pet-health-records/internal/domain/pets"
	"pet-health-records/internal/domain/records"
	"pet-health-records/internal/domain/reminders"

	"github.com/jung-kurt/gofpdf"
)

const (
	colDate  = 30.0
	colTitle = 55.0
	colNote  = 105.0
	rowH     = 6.0
)

// LogsPDF renderiza todos los logs como tabla paginada (fecha, título, texto).
func LogsPDF(petName string, items []logs.Log) ([]byte, error) {
	if len(items) == 0 {
		return nil, ErrNothingToExport
	}

	pdf := newDoc(fmt.Sprintf("%s - Logs", petName))
	tableHeader(pdf, "Date", "Title", "Text")
	for _, l := range items {
		tableRow(pdf, l.CreatedAt.Format("2006-01-02"), l.Title, l.Text)
	}

	return output(pdf)
}

// HistoryPDF renderiza el historial completo del pet en tabla paginada
// (fecha, título, nota). Es independiente del HealthReport JSON: es el
// documento de descarga directa.
func HistoryPDF(pet pets.Pet, recs []records.MedicalRecord, rems []reminders.Reminder, lgs []logs.Log) ([]byte, error) {
	if len(recs) == 0 && len(rems) == 0 && len(lgs) == 0 {
		return nil, ErrNothingToExport
	}

	pdf := newDoc(fmt.Sprintf("%s - Health History", pet.Name))

	if len(recs) > 0 {
		sectionTitle(pdf, "Medical records")
		tableHeader(pdf, "Date", "Title", "Description")
		for _, r := range recs {
			tableRow(pdf, r.Date.Format("2006-01-02"), r.Title, r.Description)
		}
	}

	if len(rems) > 0 {
		sectionTitle(pdf, "Reminders")
		tableHeader(pdf, "Due", "Title", "Description")
		for _, rem := range rems {
			desc := rem.Description
			if rem.Completed {
				desc = "[done] " + desc
			}
			tableRow(pdf, rem.DueDate.Format("2006-01-02"), rem.Title, desc)
		}
	}

	if len(lgs) > 0 {
		sectionTitle(pdf, "Logs")
		tableHeader(pdf, "Date", "Title", "Text")
		for _, l := range lgs {
			tableRow(pdf, l.CreatedAt.Format("2006-01-02"), l.Title, l.Text)
		}
	}

	return output(pdf)
}

func newDoc(title string) *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, title, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 5, "Generated "+time.Now().Format("2006-01-02 15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	return pdf
}

func sectionTitle(pdf *gofpdf.Fpdf, s string) {
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 7, s, "", 1, "L", false, 0, "")
}

func tableHeader(pdf *gofpdf.Fpdf, a, b, c string) {
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(235, 235, 235)
	pdf.CellFormat(colDate, rowH, a, "1", 0, "L", true, 0, "")
	pdf.CellFormat(colTitle, rowH, b, "1", 0, "L", true, 0, "")
	pdf.CellFormat(colNote, rowH, c, "1", 1, "L", true, 0, "")
	pdf.SetFont("Helvetica", "", 9)
}

func tableRow(pdf *gofpdf.Fpdf, date, title, note string) {
	pdf.CellFormat(colDate, rowH, date, "1", 0, "L", false, 0, "")
	pdf.CellFormat(colTitle, rowH, truncate(title, 32), "1", 0, "L", false, 0, "")
	pdf.CellFormat(colNote, rowH, truncate(note, 62), "1", 1, "L", false, 0, "")
}

// truncate corta celdas largas; una tabla, no un visor de documentos.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "..."
}

func output(pdf *gofpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
