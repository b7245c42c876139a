package plot

import (
	"strconv"

	"github.com/Delen0828/gramm-export-to-vega/pkg/errors"
)

// =============================================================================
// Default Values - Single Source of Truth
// =============================================================================

const (
	// DefaultWidth is the default plot width in pixels.
	DefaultWidth = 600.0

	// DefaultHeight is the default plot height in pixels.
	DefaultHeight = 400.0

	// DefaultFileName is the output base name when none is configured.
	DefaultFileName = "plot"
)

// DefaultPadding is the fixed pixel padding around the plotting area. The
// right side leaves room for a legend.
var DefaultPadding = [4]float64{60, 160, 40, 60} // left, right, top, bottom

// Recognized output-parameter names. Any other name is a configuration
// contract violation and aborts before compilation.
var recognizedOptions = map[string]bool{
	"file_name":   true,
	"export_path": true,
	"x":           true,
	"y":           true,
	"title":       true,
	"width":       true,
	"height":      true,
	"interactive": true,
	"tooltip":     true,
}

// =============================================================================
// Options - OutputParameters
// =============================================================================

// Options is the typed form of the upstream OutputParameters record. The
// raw contract is string-valued throughout: dimensions arrive as numeric
// strings and switches as "true"/"false".
type Options struct {
	FileName    string
	ExportPath  string
	XTitle      string
	YTitle      string
	Title       string
	Width       string
	Height      string
	Interactive string
	Tooltip     string

	// Derived by ValidateAndSetDefaults.
	WidthPx       float64
	HeightPx      float64
	InteractiveOn bool
	TooltipOn     bool
}

// ParseOptions converts a raw option record into Options. Every recognized
// option must be a string; an unrecognized name or a non-string value is a
// fatal ConfigurationError.
func ParseOptions(raw map[string]any) (Options, error) {
	var opts Options
	for name, value := range raw {
		if !recognizedOptions[name] {
			return Options{}, errors.New(errors.ErrCodeInvalidOption, "unrecognized option %q", name)
		}
		s, ok := value.(string)
		if !ok {
			return Options{}, errors.New(errors.ErrCodeInvalidOption, "option %q must be a string, got %T", name, value)
		}
		switch name {
		case "file_name":
			opts.FileName = s
		case "export_path":
			opts.ExportPath = s
		case "x":
			opts.XTitle = s
		case "y":
			opts.YTitle = s
		case "title":
			opts.Title = s
		case "width":
			opts.Width = s
		case "height":
			opts.Height = s
		case "interactive":
			opts.Interactive = s
		case "tooltip":
			opts.Tooltip = s
		}
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return Options{}, err
	}
	return opts, nil
}

// ValidateAndSetDefaults parses the string-typed fields into their usable
// forms and fills defaults for everything unset.
func (o *Options) ValidateAndSetDefaults() error {
	if o.FileName == "" {
		o.FileName = DefaultFileName
	}

	o.WidthPx = DefaultWidth
	if o.Width != "" {
		w, err := strconv.ParseFloat(o.Width, 64)
		if err != nil || w <= 0 {
			return errors.New(errors.ErrCodeInvalidDimension, "width must be a positive numeric string, got %q", o.Width)
		}
		o.WidthPx = w
	}

	o.HeightPx = DefaultHeight
	if o.Height != "" {
		h, err := strconv.ParseFloat(o.Height, 64)
		if err != nil || h <= 0 {
			return errors.New(errors.ErrCodeInvalidDimension, "height must be a positive numeric string, got %q", o.Height)
		}
		o.HeightPx = h
	}

	var err error
	if o.InteractiveOn, err = parseSwitch("interactive", o.Interactive); err != nil {
		return err
	}
	if o.TooltipOn, err = parseSwitch("tooltip", o.Tooltip); err != nil {
		return err
	}
	return nil
}

// parseSwitch parses a "true"/"false" option. Empty means false.
func parseSwitch(name, s string) (bool, error) {
	switch s {
	case "", "false":
		return false, nil
	case "true":
		return true, nil
	}
	return false, errors.New(errors.ErrCodeInvalidOption, "option %q must be \"true\" or \"false\", got %q", name, s)
}
