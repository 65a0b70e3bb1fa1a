package retained

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Config holds the tunables of an App. It is normally loaded from a TOML
// file with LoadConfig; zero sections take their defaults.
type Config struct {
	App   AppConfig   `toml:"app"`
	Paint PaintConfig `toml:"paint"`
	Input InputConfig `toml:"input"`
	Log   LogConfig   `toml:"log"`
}

type AppConfig struct {
	Name string `toml:"name"`
	// Quit Run when the last visible QuitOnClose window is closed
	QuitOnLastWindowClosed bool `toml:"quit_on_last_window_closed"`
}

type PaintConfig struct {
	// Subtract opaque siblings stacked above a widget from its dirty
	// region. Disabling it is only useful when debugging paint order.
	SubtractOpaqueSiblings bool `toml:"subtract_opaque_siblings"`
	// Initial size of new windows
	WindowWidth  int `toml:"window_width"`
	WindowHeight int `toml:"window_height"`
	// Initial size of new child widgets
	ChildWidth  int `toml:"child_width"`
	ChildHeight int `toml:"child_height"`
}

type InputConfig struct {
	// Maximum interval between two presses of a double click
	DoubleClickMS    int `toml:"double_click_ms"`
	WheelScrollLines int `toml:"wheel_scroll_lines"`
}

type LogConfig struct {
	Quiet  bool   `toml:"quiet"`
	Prefix string `toml:"prefix"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		App: AppConfig{
			Name:                   "copper",
			QuitOnLastWindowClosed: true,
		},
		Paint: PaintConfig{
			SubtractOpaqueSiblings: true,
			WindowWidth:            640,
			WindowHeight:           480,
			ChildWidth:             100,
			ChildHeight:            30,
		},
		Input: InputConfig{
			DoubleClickMS:    400,
			WheelScrollLines: 3,
		},
		Log: LogConfig{
			Prefix: "copper: ",
		},
	}
}

// LoadConfig loads the configuration at path.
// If the file doesn't exist, returns the default config.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()
	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return config, nil
	}
	if err != nil {
		return config, fmt.Errorf("failed to read %s: %w", path, err)
	}

	config, err = ParseConfig(data)
	if err != nil {
		return config, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return config, nil
}

// ParseConfig decodes TOML data over the defaults.
func ParseConfig(data []byte) (Config, error) {
	config := DefaultConfig()
	if err := toml.Unmarshal(data, &config); err != nil {
		return DefaultConfig(), err
	}
	config.normalize()
	return config, nil
}

// normalize replaces unusable values with defaults.
func (c *Config) normalize() {
	def := DefaultConfig()
	if c.Paint.WindowWidth <= 0 || c.Paint.WindowHeight <= 0 {
		c.Paint.WindowWidth, c.Paint.WindowHeight = def.Paint.WindowWidth, def.Paint.WindowHeight
	}
	if c.Paint.ChildWidth <= 0 || c.Paint.ChildHeight <= 0 {
		c.Paint.ChildWidth, c.Paint.ChildHeight = def.Paint.ChildWidth, def.Paint.ChildHeight
	}
	if c.Input.DoubleClickMS <= 0 {
		c.Input.DoubleClickMS = def.Input.DoubleClickMS
	}
	if c.Input.WheelScrollLines <= 0 {
		c.Input.WheelScrollLines = def.Input.WheelScrollLines
	}
}
