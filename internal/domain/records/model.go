package records

import "time"

// MedicalRecord es un registro médico versionado por fecha.
// Files guarda cada archivo subido como payload base64 embebido en la fila
// (restricción heredada: no hay blob storage dedicado). El set de archivos
// es inmutable después de crear el registro.
type MedicalRecord struct {
	ID          string
	PetID       string
	OwnerUserID string

	Title       string
	Description string // texto extraído; puede quedar vacío
	Date        time.Time

	Files map[string]string // filename -> base64

	CreatedAt time.Time
	UpdatedAt time.Time
}
