package reports

// InlineView es la vista estructurada lista para UI: todo ícono y nivel
// pasó por los resolvers, así que siempre es dibujable.
type InlineView struct {
	Status          InlineStatus `json:"status"`
	Risks           []InlineItem `json:"risks"`
	Recommendations []InlineItem `json:"recommendations"`
}

type InlineStatus struct {
	Level   SeverityLevel `json:"level"`
	Summary string        `json:"summary"`
	Icon    Icon          `json:"icon"`
	Color   ColorToken    `json:"color"`
}

type InlineItem struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        Icon   `json:"icon"`
}

// RenderInline resuelve cada referencia de ícono/nivel del reporte.
// Nunca falla: los resolvers son totales.
func RenderInline(r HealthReport) InlineView {
	view := InlineView{
		Status: InlineStatus{
			Level:   r.OverallStatus.Level,
			Summary: r.OverallStatus.Summary,
			Icon:    ResolveIcon(r.OverallStatus.IconKey),
			Color:   ResolveColor(r.OverallStatus.Level),
		},
		Risks:           make([]InlineItem, 0, len(r.PotentialRisks)),
		Recommendations: make([]InlineItem, 0, len(r.Recommendations)),
	}

	for _, it := range r.PotentialRisks {
		view.Risks = append(view.Risks, InlineItem{
			Title:       it.Title,
			Description: it.Description,
			Icon:        ResolveIcon(it.IconKey),
		})
	}
	for _, it := range r.Recommendations {
		view.Recommendations = append(view.Recommendations, InlineItem{
			Title:       it.Title,
			Description: it.Description,
			Icon:        ResolveIcon(it.IconKey),
		})
	}

	return view
}
