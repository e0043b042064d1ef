// Package config loads lispy CLI configuration.
//
// Values are layered with koanf: built-in defaults, then lispy.yaml found in
// the project root, then LISPY_ environment variables, then flags the user
// explicitly set.
package config

import "time"

// Config holds all CLI configuration options.
type Config struct {
	Entry         string      `koanf:"entry"`
	MaxDepth      int         `koanf:"max_depth"`
	ExtensionsDir string      `koanf:"extensions_dir"`
	StatePath     string      `koanf:"state_path"`
	History       bool        `koanf:"history"`
	Jobs          int         `koanf:"jobs"`
	Verbose       bool        `koanf:"verbose"`
	OutputFormat  string      `koanf:"output"`
	Watch         WatchConfig `koanf:"watch"`
	REPL          REPLConfig  `koanf:"repl"`

	// ProjectRoot is the directory relative paths resolve against.
	ProjectRoot string `koanf:"-"`
}

// WatchConfig configures the watch command.
type WatchConfig struct {
	Debounce time.Duration `koanf:"debounce"`
}

// REPLConfig configures the interactive session.
type REPLConfig struct {
	Prompt      string `koanf:"prompt"`
	HistoryFile string `koanf:"history_file"`
}

// Default configuration values.
const (
	DefaultEntry         = "program.lispy"
	DefaultMaxDepth      = 10000
	DefaultExtensionsDir = "extensions"
	DefaultStateFile     = ".lispy/state.db"
	DefaultJobs          = 4
	DefaultOutput        = "auto" // TTY=text, non-TTY=markdown
	DefaultDebounce      = 200 * time.Millisecond
	DefaultPrompt        = "lispy> "
	DefaultHistoryFile   = ".lispy/repl_history"
)

// FileNames are the config file names searched for, in order.
var FileNames = []string{"lispy.yaml", "lispy.yml"}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Entry:         DefaultEntry,
		MaxDepth:      DefaultMaxDepth,
		ExtensionsDir: DefaultExtensionsDir,
		StatePath:     DefaultStateFile,
		History:       true,
		Jobs:          DefaultJobs,
		OutputFormat:  DefaultOutput,
		Watch:         WatchConfig{Debounce: DefaultDebounce},
		REPL:          REPLConfig{Prompt: DefaultPrompt, HistoryFile: DefaultHistoryFile},
	}
}

// Validate reports settings that cannot work.
func (c *Config) Validate() error {
	switch {
	case c.MaxDepth < 0:
		return errorf("max_depth must not be negative, got %d", c.MaxDepth)
	case c.Jobs < 1:
		return errorf("jobs must be at least 1, got %d", c.Jobs)
	case c.Watch.Debounce < 0:
		return errorf("watch.debounce must not be negative, got %s", c.Watch.Debounce)
	}
	switch c.OutputFormat {
	case "", "auto", "text", "markdown", "json":
		return nil
	default:
		return errorf("output must be one of auto, text, markdown, json; got %q", c.OutputFormat)
	}
}
