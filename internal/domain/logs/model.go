package logs

import "time"

// Log es una nota de texto libre del dueño sobre su mascota.
// Inmutable después de crear; solo se puede borrar.
type Log struct {
	ID          string
	PetID       string
	OwnerUserID string

	Title string
	Text  string

	CreatedAt time.Time
}
