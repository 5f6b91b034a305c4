package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultFile is read when no --config flag is given. It may be absent.
const DefaultFile = "gridsheet.yaml"

type Config struct {
	Editor Editor `yaml:"editor"`
	Server Server `yaml:"server"`
	Log    Log    `yaml:"log"`
}

// Editor holds layout and editing behaviour of the terminal editor.
type Editor struct {
	LeftGutter    int `yaml:"left_gutter"`
	StatusLines   int `yaml:"status_lines"`
	DefaultWidth  int `yaml:"default_width"`
	DefaultHeight int `yaml:"default_height"`
	CellPadding   int `yaml:"cell_padding"`
	InitialRows   int `yaml:"initial_rows"`
	InitialCols   int `yaml:"initial_cols"`

	EnterStartsEdit     bool `yaml:"enter_starts_edit"`
	PrintableStartsEdit bool `yaml:"printable_starts_edit"`
	MoveAfterEnter      bool `yaml:"move_after_enter"`
	SelectAllOnEdit     bool `yaml:"select_all_on_edit"`
	Splash              bool `yaml:"splash"`
}

type Server struct {
	Listen string `yaml:"listen"`
}

type Log struct {
	// File receives the log; empty means stderr, or no log at all for the
	// terminal editor.
	File  string `yaml:"file"`
	Level string `yaml:"level"`
}

func Default() Config {
	return Config{
		Editor: Editor{
			LeftGutter:      4,
			StatusLines:     2,
			DefaultWidth:    16,
			DefaultHeight:   1,
			CellPadding:     1,
			InitialRows:     10,
			InitialCols:     10,
			EnterStartsEdit: true,
			MoveAfterEnter:  true,
			SelectAllOnEdit: true,
		},
		Server: Server{Listen: ":8080"},
		Log:    Log{Level: "info"},
	}
}

// Load reads a YAML file over the defaults. When path is empty DefaultFile is
// tried and silently skipped if it does not exist.
func Load(path string) (Config, error) {
	cfg := Default()
	optional := path == ""
	if optional {
		path = DefaultFile
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

var ErrInvalid = errors.New("invalid config")

func (c Config) Validate() error {
	e := c.Editor
	switch {
	case e.DefaultWidth < 4:
		return fmt.Errorf("%w: editor.default_width must be at least 4", ErrInvalid)
	case e.DefaultHeight < 1:
		return fmt.Errorf("%w: editor.default_height must be at least 1", ErrInvalid)
	case e.InitialRows < 1 || e.InitialCols < 1:
		return fmt.Errorf("%w: editor.initial_rows and initial_cols must be positive", ErrInvalid)
	case e.LeftGutter < 2 || e.StatusLines < 2 || e.CellPadding < 0:
		return fmt.Errorf("%w: editor layout values out of range", ErrInvalid)
	case c.Server.Listen == "":
		return fmt.Errorf("%w: server.listen is empty", ErrInvalid)
	}
	return nil
}
