// Package config loads the YAML configuration of the imposition service.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"gopkg.in/yaml.v3"

	"github.com/t12nslookup/hexapdf-nup/internal/layout"
	"github.com/t12nslookup/hexapdf-nup/internal/logging"
)

// DefaultAddr is the listen address used when none is configured.
const DefaultAddr = ":8085"

// ErrConfiguration is wrapped by every Error.
var ErrConfiguration = errors.New("configuration error")

// Error is a configuration error with context.
type Error struct {
	Field   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config error in '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("config error: %s", e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match ErrConfiguration even when Err holds a cause.
func (e *Error) Is(target error) bool {
	return target == ErrConfiguration
}

// Config is the service configuration.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string `yaml:"addr"`

	// Password unlocks encrypted input documents.
	Password string `yaml:"password"`

	Log    logging.Config `yaml:"log"`
	Layout Layout         `yaml:"layout"`
}

// Layout overrides parts of the default sheet layout. Zero values keep the
// default.
type Layout struct {
	// Paper is a named paper size such as A4 or Letter.
	Paper string `yaml:"paper"`

	// SheetWidth and SheetHeight override the paper size, in points.
	SheetWidth  float64 `yaml:"sheet-width"`
	SheetHeight float64 `yaml:"sheet-height"`

	Rows int `yaml:"rows"`

	// Margin is a pointer so that an explicit zero margin can be told
	// apart from an unset one.
	Margin *float64 `yaml:"margin"`
}

// Default returns the configuration used without a file.
func Default() Config {
	return Config{
		Addr: DefaultAddr,
		Log:  logging.DefaultConfig(),
	}
}

// Load reads and validates the YAML file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults. Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	c := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, &Error{Message: err.Error(), Err: err}
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks the listen address and the resulting sheet layout.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return &Error{Field: "addr", Message: "required field is missing"}
	}
	switch c.Log.Format {
	case "", "console", "json":
	default:
		return &Error{Field: "log.format", Message: fmt.Sprintf("unknown format %q", c.Log.Format)}
	}
	_, err := c.SheetLayout()
	return err
}

// SheetLayout applies the layout overrides to layout.Default.
func (c Config) SheetLayout() (layout.Layout, error) {
	def := layout.Default()
	width, height := def.SheetWidth, def.SheetHeight
	rows, margin := def.Rows, def.Margin
	if c.Layout.Paper != "" {
		dim, ok := lookupPaper(c.Layout.Paper)
		if !ok {
			return layout.Layout{}, &Error{Field: "layout.paper", Message: fmt.Sprintf("unknown paper size %q", c.Layout.Paper)}
		}
		width, height = dim.Width, dim.Height
	}
	if c.Layout.SheetWidth != 0 {
		width = c.Layout.SheetWidth
	}
	if c.Layout.SheetHeight != 0 {
		height = c.Layout.SheetHeight
	}
	if c.Layout.Rows != 0 {
		rows = c.Layout.Rows
	}
	if c.Layout.Margin != nil {
		margin = *c.Layout.Margin
	}

	l, err := layout.New(width, height, rows, margin)
	if err != nil {
		var verr *layout.ValidationError
		if errors.As(err, &verr) {
			return layout.Layout{}, &Error{Field: "layout." + verr.Field, Message: verr.Message, Err: err}
		}
		return layout.Layout{}, &Error{Field: "layout", Message: err.Error(), Err: err}
	}
	return l, nil
}

func lookupPaper(name string) (*types.Dim, bool) {
	if dim, ok := types.PaperSize[name]; ok {
		return dim, true
	}
	for k, dim := range types.PaperSize {
		if strings.EqualFold(k, name) {
			return dim, true
		}
	}
	return nil, false
}
