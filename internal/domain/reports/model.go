package reports

// SeverityLevel ordena el estado general de menor a mayor gravedad.
// @Enum good, fair, caution, poor, urgent
type SeverityLevel string

const (
	LevelGood    SeverityLevel = "good"
	LevelFair    SeverityLevel = "fair"
	LevelCaution SeverityLevel = "caution"
	LevelPoor    SeverityLevel = "poor"
	LevelUrgent  SeverityLevel = "urgent"
)

// OverallStatus es el banner principal del reporte.
type OverallStatus struct {
	Level   SeverityLevel `json:"level"`
	Summary string        `json:"summary"`
	IconKey string        `json:"iconKey"`
}

// ReportItem es un riesgo o recomendación puntual.
type ReportItem struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	IconKey     string `json:"iconKey"`
}

// HealthReport es transitorio: se regenera en cada request y no se persiste.
type HealthReport struct {
	OverallStatus   OverallStatus `json:"overallStatus"`
	PotentialRisks  []ReportItem  `json:"potentialRisks"`
	Recommendations []ReportItem  `json:"recommendations"`
}

// Location es la geolocalización actual del dueño.
// El reporte la exige: sin ubicación el generate falla cerrado, no la omite.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
