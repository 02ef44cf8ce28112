package extract

import (
	"context"
	"time"
)

// Gate acota cuántas extracciones corren en paralelo y les pone timeout.
// Un upload pesado no debe acaparar el proceso entero.
type Gate struct {
	slots   chan struct{}
	timeout time.Duration
}

func NewGate(maxConcurrent int, timeout time.Duration) *Gate {
	if maxConcurrent <= 0 {
		maxConcurrent = 2
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Gate{
		slots:   make(chan struct{}, maxConcurrent),
		timeout: timeout,
	}
}

// Run ejecuta la extracción respetando el límite de concurrencia.
// Espera un slot (o cancelación) y aplica el timeout configurado.
func (g *Gate) Run(ctx context.Context, e Extractor, data []byte) (Result, error) {
	select {
	case g.slots <- struct{}{}:
		defer func() { <-g.slots }()
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	return e.Extract(ctx, data)
}
