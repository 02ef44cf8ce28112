package pets

import "time"

// Species define las especies soportadas.
// @Enum dog, cat
type Species string

const (
	SpeciesDog Species = "dog"
	SpeciesCat Species = "cat"
)

// Sex define el sexo de la mascota.
// @Enum male, female, unknown
type Sex string

const (
	SexMale    Sex = "male"
	SexFemale  Sex = "female"
	SexUnknown Sex = "unknown"
)

// Pet representa el perfil básico de una mascota.
// El CRUD completo de perfiles vive en otro servicio; acá solo se consume
// para ingesta de registros y síntesis de reportes (más un alta mínima
// para dev/seeding).
type Pet struct {
	ID          string
	OwnerUserID string

	Name    string
	Species Species
	Breed   string
	Sex     Sex

	BirthDate *time.Time
	Weight    float64 // kg, 0 = no registrado

	Notes string

	CreatedAt time.Time
	UpdatedAt time.Time
}
