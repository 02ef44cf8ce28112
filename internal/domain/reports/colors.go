package reports

// ColorToken es un token de color que la UI mapea a su paleta.
type ColorToken string

const (
	ColorGreen   ColorToken = "green"
	ColorLime    ColorToken = "lime"
	ColorYellow  ColorToken = "yellow"
	ColorOrange  ColorToken = "orange"
	ColorRed     ColorToken = "red"
	ColorNeutral ColorToken = "neutral"
)

var severityColors = map[SeverityLevel]ColorToken{
	LevelGood:    ColorGreen,
	LevelFair:    ColorLime,
	LevelCaution: ColorYellow,
	LevelPoor:    ColorOrange,
	LevelUrgent:  ColorRed,
}

// ResolveColor es total: nivel desconocido => ColorNeutral.
func ResolveColor(level SeverityLevel) ColorToken {
	if c, ok := severityColors[level]; ok {
		return c
	}
	return ColorNeutral
}
