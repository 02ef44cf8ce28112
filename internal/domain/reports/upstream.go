package reports

import (
	"context"

	"pet-health-records/internal/domain/logs"
	"pet-health-records/internal/domain/pets"
	"pet-health-records/internal/domain/records"
	"pet-health-records/internal/domain/reminders"
)

// Payload es el agregado completo que se manda al servicio de análisis.
type Payload struct {
	Pet       pets.Pet
	Records   []records.MedicalRecord
	Reminders []reminders.Reminder
	Logs      []logs.Log
	Location  Location
}

// Outcome es la respuesta del upstream. El contrato canónico es JSON
// (Report != nil); algunos despliegues viejos devuelven el PDF binario
// directo (PDF != nil) y seguimos aceptándolo como transporte deprecado.
type Outcome struct {
	Report *HealthReport
	PDF    []byte
}

// Upstream es el puerto hacia el servicio externo de reportes.
type Upstream interface {
	Generate(ctx context.Context, p Payload) (Outcome, error)
}
