package extract

import (
	"bytes"
	"context"
	"os/exec"
)

// Runner ejecuta un binario externo. Existe para poder inyectar un fake
// en tests sin depender de tesseract instalado.
type Runner interface {
	Run(ctx context.Context, bin string, args ...string) (stdout []byte, stderr []byte, err error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, bin string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, bin, args...)

	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb

	err := cmd.Run()
	return out.Bytes(), errb.Bytes(), err
}
