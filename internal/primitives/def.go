package primitives

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// PrimitiveDef is the YAML definition for a primitive's defaults (e.g. assets/primitives/cube.yaml).
// Zero fields fall back to the built-in tessellation.
type PrimitiveDef struct {
	Type     string  `yaml:"type" validate:"required,primitivekind"`
	Color    string  `yaml:"color,omitempty" validate:"omitempty,hexcolor"`
	Segments int     `yaml:"segments,omitempty" validate:"omitempty,min=3,max=512"`
	Rings    int     `yaml:"rings,omitempty" validate:"omitempty,min=2,max=512"`
	Height   float32 `yaml:"height,omitempty" validate:"omitempty,gt=0"`
	Size     float32 `yaml:"size,omitempty" validate:"omitempty,gt=0"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("primitivekind", validatePrimitiveKind)
}

func validatePrimitiveKind(fl validator.FieldLevel) bool {
	_, err := ParseKind(fl.Field().String())
	return err == nil
}

// Kind returns the parsed Type. Call after Validate.
func (d PrimitiveDef) Kind() Kind {
	k, _ := ParseKind(d.Type)
	return k
}

// Validate checks field ranges and the type name.
func (d PrimitiveDef) Validate() error {
	return validate.Struct(d)
}

// ParseDef decodes and validates one YAML definition.
func ParseDef(data []byte) (PrimitiveDef, error) {
	var d PrimitiveDef
	if err := yaml.Unmarshal(data, &d); err != nil {
		return PrimitiveDef{}, fmt.Errorf("decode primitive def: %w", err)
	}
	if err := d.Validate(); err != nil {
		return PrimitiveDef{}, fmt.Errorf("invalid primitive def: %w", err)
	}
	return d, nil
}

// LoadDefs reads every *.yaml / *.yml file in dir. A missing directory yields no defs.
// Files that fail to parse are reported together; the valid ones are still returned.
func LoadDefs(dir string) ([]PrimitiveDef, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read primitive defs: %w", err)
	}
	var defs []PrimitiveDef
	var errs []error
	for _, e := range entries {
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if e.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", path, err))
			continue
		}
		d, err := ParseDef(data)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", path, err))
			continue
		}
		defs = append(defs, d)
	}
	return defs, errors.Join(errs...)
}

// Color is an 8-bit RGBA color.
type Color struct {
	R, G, B, A uint8
}

// DefaultColor is the grey every primitive is drawn with unless a def overrides it.
var DefaultColor = Color{128, 128, 128, 255}

// ParseColor parses the hex forms the hexcolor validator accepts: #rgb, #rgba, #rrggbb, #rrggbbaa.
func ParseColor(s string) (Color, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 || len(h) == 4 {
		var b strings.Builder
		for i := 0; i < len(h); i++ {
			b.WriteByte(h[i])
			b.WriteByte(h[i])
		}
		h = b.String()
	}
	if len(h) == 6 {
		h += "ff"
	}
	if len(h) != 8 {
		return Color{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return Color{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// Hex formats c as "#rrggbb", or "#rrggbbaa" when not opaque.
func (c Color) Hex() string {
	if c.A == 255 {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}
