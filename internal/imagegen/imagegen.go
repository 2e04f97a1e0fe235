// internal/imagegen/imagegen.go
package imagegen

import (
	"context"
	"errors"
)

// ErrNotImage is returned when a provider answers with something other than image bytes.
var ErrNotImage = errors.New("provider response is not an image")

// Provider generates one image for a prompt.
type Provider interface {
	Name() string
	Generate(ctx context.Context, prompt string) ([]byte, error)
}
