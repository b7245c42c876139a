package plot

import (
	"io"
	"os"

	"github.com/goccy/go-json"

	"github.com/Delen0828/gramm-export-to-vega/pkg/errors"
)

// ReadContext decodes an analysis context from JSON and derives its grouping
// state. Invariant violations (mismatched sequence lengths) are fatal
// INVALID_CONTEXT errors: the upstream contract guarantees aligned
// per-observation sequences.
func ReadContext(r io.Reader) (*Context, error) {
	var c Context
	if err := json.NewDecoder(r).Decode(&c); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidContext, err, "decode analysis context")
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	c.Grouping = Analyze(c.Aes)
	return &c, nil
}

// ReadContextFile reads an analysis context from a JSON file.
func ReadContextFile(path string) (*Context, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "open %s", path)
	}
	defer f.Close()
	return ReadContext(f)
}

// validate enforces the AnalysisContext invariants.
func (c *Context) validate() error {
	if len(c.Aes.X) != len(c.Aes.Y) {
		return errors.New(errors.ErrCodeInvalidContext,
			"x and y must be equal length, got %d and %d", len(c.Aes.X), len(c.Aes.Y))
	}
	if len(c.Aes.Color) > 0 && len(c.Aes.Color) != len(c.Aes.X) {
		return errors.New(errors.ErrCodeInvalidContext,
			"color length %d does not match x length %d", len(c.Aes.Color), len(c.Aes.X))
	}
	return nil
}
