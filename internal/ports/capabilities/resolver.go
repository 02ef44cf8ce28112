package capabilities

import "context"

// Capability identifica una feature facturable/gateada por plan.
type Capability string

const (
	// CapabilityAIReports habilita la síntesis de reportes de salud con IA.
	CapabilityAIReports Capability = "reports:ai_generate"
)

// Resolver responde si un usuario tiene una capability activa según su plan.
type Resolver interface {
	Has(ctx context.Context, userID string, capability Capability) (bool, error)
}
