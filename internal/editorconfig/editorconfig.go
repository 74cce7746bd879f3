package editorconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ConfigPath is the default editor config file, relative to the process working directory.
const ConfigPath = "config/editor.yaml"

// Prefs holds editor preferences: overlays, spawn behavior, scene limits and logging.
// Persisted across runs as YAML, or TOML when the file ends in .toml.
type Prefs struct {
	ShowFPS      bool `yaml:"show_fps" toml:"show_fps"`
	ShowMemAlloc bool `yaml:"show_memalloc" toml:"show_memalloc"`
	GridVisible  bool `yaml:"grid_visible" toml:"grid_visible"`

	GridCell      float32 `yaml:"grid_cell" toml:"grid_cell" validate:"gt=0"`
	SnapToGrid    bool    `yaml:"snap_to_grid" toml:"snap_to_grid"`
	SpawnMode     string  `yaml:"spawn_mode" toml:"spawn_mode" validate:"oneof=origin plane mesh"`
	AlignToNormal bool    `yaml:"align_to_normal" toml:"align_to_normal"`

	HistoryLimit  int     `yaml:"history_limit" toml:"history_limit" validate:"gte=0"`
	BVHLeafSize   int     `yaml:"bvh_leaf_size" toml:"bvh_leaf_size" validate:"gte=1,lte=256"`
	ScaleEpsilon  float32 `yaml:"scale_epsilon" toml:"scale_epsilon" validate:"gt=0"`
	FixedTimestep float32 `yaml:"fixed_timestep" toml:"fixed_timestep" validate:"gte=0"`

	BackgroundColor string `yaml:"background_color" toml:"background_color" validate:"hexcolor"`
	SelectionColor  string `yaml:"selection_color" toml:"selection_color" validate:"hexcolor"`

	PrimitivesDir  string `yaml:"primitives_dir" toml:"primitives_dir"`
	ScenePath      string `yaml:"scene_path" toml:"scene_path" validate:"required"`
	AnimationsPath string `yaml:"animations_path" toml:"animations_path"`

	LogFile      string `yaml:"log_file" toml:"log_file"`
	ConsoleLines int    `yaml:"console_lines" toml:"console_lines" validate:"gte=10"`
	Debug        bool   `yaml:"debug" toml:"debug"`
}

// Default returns default preferences (overlays off, grid on, spawns at the origin).
func Default() Prefs {
	return Prefs{
		GridVisible:     true,
		GridCell:        1,
		SpawnMode:       "origin",
		HistoryLimit:    0,
		BVHLeafSize:     8,
		ScaleEpsilon:    1e-4,
		FixedTimestep:   0,
		BackgroundColor: "#1e1e23",
		SelectionColor:  "#ffb432",
		PrimitivesDir:   "assets/primitives",
		ScenePath:       "scene.txt",
		AnimationsPath:  "animations.txt",
		LogFile:         "logs/editor.log",
		ConsoleLines:    1000,
	}
}

var validate = validator.New()

// Validate reports every field outside its allowed range.
func (p Prefs) Validate() error {
	if err := validate.Struct(p); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s fails %q", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("invalid editor config: %s", strings.Join(msgs, ", "))
		}
		return err
	}
	return nil
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// Parse decodes data over Default(), so keys left out of the file keep their defaults.
func Parse(data []byte, asTOML bool) (Prefs, error) {
	p := Default()
	var err error
	if asTOML {
		err = toml.Unmarshal(data, &p)
	} else {
		err = yaml.Unmarshal(data, &p)
	}
	if err != nil {
		return Default(), err
	}
	if err := p.Validate(); err != nil {
		return Default(), err
	}
	return p, nil
}

// Load reads preferences from path. A missing file yields Default() and no error; an
// unreadable or invalid one yields Default() and the reason.
func Load(path string) (Prefs, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Default(), err
	}
	p, err := Parse(data, isTOML(path))
	if err != nil {
		return Default(), fmt.Errorf("failed to load %s: %w", path, err)
	}
	return p, nil
}

// Save writes preferences to path, creating its directory if needed.
func Save(path string, p Prefs) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	var data []byte
	var err error
	if isTOML(path) {
		data, err = toml.Marshal(p)
	} else {
		data, err = yaml.Marshal(p)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
