package reports

// Icon es un token de ícono que la UI sabe dibujar.
// Registro cerrado: una key desconocida del upstream SIEMPRE resuelve al
// fallback, nunca falla (el lookup dinámico string->ícono quedó atrás).
type Icon string

const (
	IconPaw         Icon = "paw" // fallback
	IconHeart       Icon = "heart"
	IconHeartPulse  Icon = "heart-pulse"
	IconVaccine     Icon = "vaccine"
	IconPill        Icon = "pill"
	IconStethoscope Icon = "stethoscope"
	IconTooth       Icon = "tooth"
	IconBone        Icon = "bone"
	IconScale       Icon = "scale"
	IconBug         Icon = "bug"
	IconSun         Icon = "sun"
	IconDroplet     Icon = "droplet"
	IconWarning     Icon = "warning"
	IconShield      Icon = "shield"
	IconFood        Icon = "food"
	IconWalk        Icon = "walk"
)

var iconRegistry = map[string]Icon{
	"paw":         IconPaw,
	"heart":       IconHeart,
	"heart-pulse": IconHeartPulse,
	"vaccine":     IconVaccine,
	"pill":        IconPill,
	"stethoscope": IconStethoscope,
	"tooth":       IconTooth,
	"bone":        IconBone,
	"scale":       IconScale,
	"bug":         IconBug,
	"sun":         IconSun,
	"droplet":     IconDroplet,
	"warning":     IconWarning,
	"shield":      IconShield,
	"food":        IconFood,
	"walk":        IconWalk,
}

// ResolveIcon es total: key desconocida => IconPaw.
func ResolveIcon(key string) Icon {
	if icon, ok := iconRegistry[key]; ok {
		return icon
	}
	return IconPaw
}
