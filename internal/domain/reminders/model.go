package reminders

import "time"

// Type clasifica el recordatorio.
// @Enum vaccination, medication, checkup, grooming
type Type string

const (
	TypeVaccination Type = "vaccination"
	TypeMedication  Type = "medication"
	TypeCheckup     Type = "checkup"
	TypeGrooming    Type = "grooming"
)

// RecurrencePattern describe cómo se repite un recordatorio.
// @Enum none, daily, weekly, monthly, custom
type RecurrencePattern string

const (
	RecurrenceNone    RecurrencePattern = "none"
	RecurrenceDaily   RecurrencePattern = "daily"
	RecurrenceWeekly  RecurrencePattern = "weekly"
	RecurrenceMonthly RecurrencePattern = "monthly"
	RecurrenceCustom  RecurrencePattern = "custom"
)

// CustomRecurrence es el detalle cuando pattern == custom.
type CustomRecurrence struct {
	Interval int    // cada N unidades
	Unit     string // "day" | "week" | "month"
	Weekdays []time.Weekday
}

type Recurrence struct {
	Pattern RecurrencePattern
	Custom  *CustomRecurrence // solo con pattern == custom
	EndDate *time.Time
}

// Reminder pertenece al CRUD de recordatorios (fuera de este servicio);
// acá solo se lee completo como insumo del reporte de salud.
type Reminder struct {
	ID          string
	PetID       string
	OwnerUserID string

	Title       string
	Description string

	DueDate   time.Time
	DueTime   string // "HH:MM" opcional
	Type      Type
	Completed bool

	Recurrence Recurrence
}
