package cli

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/Delen0828/gramm-export-to-vega/pkg/errors"
	"github.com/Delen0828/gramm-export-to-vega/pkg/plot"
)

// Config holds persistent defaults loaded from a vegaexport.toml file.
// Explicit command-line flags always win over configured values.
type Config struct {
	// Width and Height are default output dimensions as numeric strings,
	// matching the option contract.
	Width  string `toml:"width"`
	Height string `toml:"height"`

	// ExportPath is the default output directory for compiled specs.
	ExportPath string `toml:"export_path"`

	// Interactive and Tooltip enable the interactive legend and per-point
	// tooltips by default.
	Interactive bool `toml:"interactive"`
	Tooltip     bool `toml:"tooltip"`

	// CacheDir overrides the XDG cache location.
	CacheDir string `toml:"cache_dir"`

	// Addr is the default listen address for the serve command.
	Addr string `toml:"addr"`
}

// configFileName is the per-project config file looked up in the working
// directory.
const configFileName = "vegaexport.toml"

// LoadConfig reads configuration from path. When path is empty it searches the
// working directory, then $XDG_CONFIG_HOME/vegaexport/config.toml, then
// ~/.config/vegaexport/config.toml. A missing file is not an error; a file
// that exists but fails to parse is fatal.
func LoadConfig(path string) (Config, error) {
	var cfg Config

	explicit := path != ""
	if !explicit {
		path = findConfig()
		if path == "" {
			return cfg, nil
		}
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) {
			if explicit {
				return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
			}
			return cfg, nil
		}
		return cfg, errors.Wrap(errors.ErrCodeInvalidOption, err, "parse config %s", path)
	}
	return cfg, nil
}

// findConfig returns the first existing config file from the search path.
func findConfig() string {
	candidates := []string{configFileName}
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		candidates = append(candidates, filepath.Join(configHome, appName, "config.toml"))
	} else if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", appName, "config.toml"))
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// applyConfig fills unset option fields from the config.
func applyConfig(opts *plot.Options, cfg Config) {
	if opts.Width == "" {
		opts.Width = cfg.Width
	}
	if opts.Height == "" {
		opts.Height = cfg.Height
	}
	if opts.ExportPath == "" {
		opts.ExportPath = cfg.ExportPath
	}
	if opts.Interactive == "" && cfg.Interactive {
		opts.Interactive = "true"
	}
	if opts.Tooltip == "" && cfg.Tooltip {
		opts.Tooltip = "true"
	}
}
