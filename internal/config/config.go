package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"lunaday/internal/gesture"
	"lunaday/internal/navigation"
	"lunaday/internal/storage"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "lunaday.db"
	EnvConfigPath         = "LUNADAY_CONFIG"
)

// Profile names accepted by gesture_profile.
const (
	ProfileTouch    = "touch"
	ProfileDesktop  = "desktop"
	ProfileTerminal = "terminal"
)

type Keymap struct {
	Quit     string `toml:"quit"`
	Add      string `toml:"add"`
	Detail   string `toml:"detail"`
	Delete   string `toml:"delete"`
	Confirm  string `toml:"confirm"`
	Cancel   string `toml:"cancel"`
	Next     string `toml:"next"`
	Prev     string `toml:"prev"`
	Expand   string `toml:"expand"`
	Collapse string `toml:"collapse"`
	Today    string `toml:"today"`
	Month    string `toml:"month"`
	Week     string `toml:"week"`
	Day      string `toml:"day"`
	Up       string `toml:"up"`
	Down     string `toml:"down"`
	Left     string `toml:"left"`
	Right    string `toml:"right"`
}

// Duration is a time.Duration written as "300ms" in TOML.
type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Thresholds overrides a built-in gesture profile. Unset fields keep the
// built-in value; set fields must be positive.
type Thresholds struct {
	TapMovement     *float64  `toml:"tap_movement,omitempty"`
	TapDuration     *Duration `toml:"tap_duration,omitempty"`
	HorizontalSwipe *float64  `toml:"horizontal_swipe,omitempty"`
	VerticalSwipe   *float64  `toml:"vertical_swipe,omitempty"`
}

func (t Thresholds) validate() error {
	for field, v := range map[string]*float64{
		"tap_movement":     t.TapMovement,
		"horizontal_swipe": t.HorizontalSwipe,
		"vertical_swipe":   t.VerticalSwipe,
	} {
		if v != nil && *v <= 0 {
			return fmt.Errorf("%s must be positive, got %v", field, *v)
		}
	}
	if t.TapDuration != nil && t.TapDuration.Duration <= 0 {
		return fmt.Errorf("tap_duration must be positive, got %s", t.TapDuration)
	}
	return nil
}

type Log struct {
	Path  string `toml:"path"`
	Level string `toml:"level"`
}

type Config struct {
	DBPath         string                `toml:"db_path"`
	Storage        string                `toml:"storage"`
	DiskDir        string                `toml:"disk_dir"`
	GestureProfile string                `toml:"gesture_profile"`
	Gestures       map[string]Thresholds `toml:"gestures,omitempty"`
	SettleDelay    Duration              `toml:"settle_delay"`
	PanelRows      []int                 `toml:"panel_rows"`
	InitialView    string                `toml:"initial_view"`
	Log            Log                   `toml:"log"`
	Keys           Keymap                `toml:"keys"`
}

// ResolvePath picks the config file: an explicit flag value, then
// $LUNADAY_CONFIG, then the user config dir.
func ResolvePath(flag string) string {
	if flag != "" {
		return flag
	}
	if env := os.Getenv(EnvConfigPath); env != "" {
		return env
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return DefaultConfigFileName
	}
	return filepath.Join(dir, "lunaday", DefaultConfigFileName)
}

func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		cfg.resolvePaths(filepath.Dir(path))
		return cfg, nil
	}
	return Load(path)
}

// Load reads path over the defaults without creating anything.
func Load(path string) (Config, error) {
	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBName
	}
	cfg.resolvePaths(filepath.Dir(path))
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// resolvePaths anchors relative storage paths next to the config file.
func (c *Config) resolvePaths(base string) {
	if c.DBPath != "" && !filepath.IsAbs(c.DBPath) {
		c.DBPath = filepath.Join(base, c.DBPath)
	}
	if c.DiskDir != "" && !filepath.IsAbs(c.DiskDir) {
		c.DiskDir = filepath.Join(base, c.DiskDir)
	}
	if c.Log.Path != "" && !filepath.IsAbs(c.Log.Path) {
		c.Log.Path = filepath.Join(base, c.Log.Path)
	}
}

func (c Config) Validate() error {
	switch c.Storage {
	case storage.BackendSQLite:
		if c.DBPath == "" {
			return errors.New("config: db_path is empty")
		}
	case storage.BackendDisk:
		if c.DiskDir == "" {
			return errors.New("config: disk_dir is empty")
		}
	default:
		return fmt.Errorf("config: unknown storage %q", c.Storage)
	}
	if _, err := builtinProfile(c.GestureProfile); err != nil {
		return err
	}
	for name, t := range c.Gestures {
		if _, err := builtinProfile(name); err != nil {
			return err
		}
		if err := t.validate(); err != nil {
			return fmt.Errorf("config: gestures.%s: %w", name, err)
		}
	}
	if c.SettleDelay.Duration <= 0 {
		return fmt.Errorf("config: settle_delay must be positive, got %s", c.SettleDelay)
	}
	if len(c.PanelRows) != 3 {
		return fmt.Errorf("config: panel_rows needs 3 sizes, got %d", len(c.PanelRows))
	}
	for i, r := range c.PanelRows {
		if r <= 0 || (i > 0 && r <= c.PanelRows[i-1]) {
			return fmt.Errorf("config: panel_rows must be positive and ascending: %v", c.PanelRows)
		}
	}
	if _, err := navigation.ParseView(c.InitialView); err != nil {
		return fmt.Errorf("config: initial_view: %w", err)
	}
	return nil
}

// StoragePath is the location the selected backend opens.
func (c Config) StoragePath() string {
	if c.Storage == storage.BackendDisk {
		return c.DiskDir
	}
	return c.DBPath
}

// Profile returns the active gesture thresholds with overrides applied.
func (c Config) Profile() gesture.Profile {
	p, err := builtinProfile(c.GestureProfile)
	if err != nil {
		p = gesture.TerminalProfile()
	}
	t, ok := c.Gestures[strings.ToLower(c.GestureProfile)]
	if !ok {
		return p
	}
	if t.TapMovement != nil {
		p.TapMovement = *t.TapMovement
	}
	if t.TapDuration != nil {
		p.TapDuration = t.TapDuration.Duration
	}
	if t.HorizontalSwipe != nil {
		p.HorizontalSwipe = *t.HorizontalSwipe
	}
	if t.VerticalSwipe != nil {
		p.VerticalSwipe = *t.VerticalSwipe
	}
	return p
}

// View returns the initial calendar view, falling back to month.
func (c Config) View() navigation.View {
	v, _ := navigation.ParseView(c.InitialView)
	return v
}

func builtinProfile(name string) (gesture.Profile, error) {
	switch strings.ToLower(name) {
	case ProfileTouch:
		return gesture.TouchProfile(), nil
	case ProfileDesktop:
		return gesture.DesktopProfile(), nil
	case ProfileTerminal, "":
		return gesture.TerminalProfile(), nil
	}
	return gesture.Profile{}, fmt.Errorf("config: unknown gesture profile %q", name)
}

func write(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: ensure dir: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultConfig() Config {
	return Config{
		DBPath:         DefaultDBName,
		Storage:        storage.BackendSQLite,
		DiskDir:        "activities",
		GestureProfile: ProfileTerminal,
		SettleDelay:    Duration{300 * time.Millisecond},
		PanelRows:      []int{8, 14, 20},
		InitialView:    navigation.Month.String(),
		Log: Log{
			Path:  "lunaday.log",
			Level: "info",
		},
		Keys: Keymap{
			Quit:     "q",
			Add:      "a",
			Detail:   "enter",
			Delete:   "x",
			Confirm:  "enter",
			Cancel:   "esc",
			Next:     "n",
			Prev:     "p",
			Expand:   "+",
			Collapse: "-",
			Today:    "t",
			Month:    "m",
			Week:     "w",
			Day:      "d",
			Up:       "k",
			Down:     "j",
			Left:     "h",
			Right:    "l",
		},
	}
}
