// Package yaml renders zprof results as YAML documents for scripts.
package yaml

import (
	"io"

	"github.com/arthur-debert/zprof/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Renderer writes one YAML document per call.
type Renderer struct {
	output io.Writer
}

// New creates a YAML renderer.
func New(w io.Writer) *Renderer {
	return &Renderer{output: w}
}

func (r *Renderer) encode(v interface{}) error {
	enc := yaml.NewEncoder(r.output)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to encode yaml output")
	}
	return enc.Close()
}

// RenderResult encodes the result using its yaml tags.
func (r *Renderer) RenderResult(result interface{}) error {
	return r.encode(result)
}

type errorDoc struct {
	Error   string                 `yaml:"error"`
	Code    errors.ErrorCode       `yaml:"code"`
	Details map[string]interface{} `yaml:"details,omitempty"`
}

// RenderError encodes the error with its code and details.
func (r *Renderer) RenderError(err error) error {
	return r.encode(errorDoc{
		Error:   err.Error(),
		Code:    errors.GetErrorCode(err),
		Details: errors.GetErrorDetails(err),
	})
}

// RenderMessage encodes a message document.
func (r *Renderer) RenderMessage(msg string) error {
	return r.encode(map[string]string{"message": msg})
}
