package reminders

import "context"

// Repository de solo-consumo: la síntesis de reportes necesita TODOS los
// recordatorios del pet (no solo los próximos). Create existe para
// seeding/tests; el CRUD real vive en otro módulo de la app.
type Repository interface {
	Create(ctx context.Context, rem Reminder) error
	ListByPet(ctx context.Context, petID, ownerUserID string) ([]Reminder, error)
}
