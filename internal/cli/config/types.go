// Package config loads cncc settings from defaults, a YAML config file,
// CNCC_* environment variables and command-line flags.
package config

// Config holds all CLI configuration options.
type Config struct {
	Style           string   `koanf:"style"`
	DBDir           string   `koanf:"dbdir"`
	Jobs            int      `koanf:"jobs"`
	Verbose         bool     `koanf:"verbose"`
	OutputFormat    string   `koanf:"output"`
	Clang           string   `koanf:"clang"`
	ClangArgs       []string `koanf:"clang_args"`
	Baseline        string   `koanf:"baseline"`
	UpdateBaseline  bool     `koanf:"update_baseline"`
	Summary         bool     `koanf:"summary"`
	FailOnViolation bool     `koanf:"fail_on_violation"`
	Watch           bool     `koanf:"watch"`
}

// Default configuration values.
const (
	DefaultStyleFile = ".cncc.style" // relative to the home directory
	DefaultJobs      = 1
	DefaultOutput    = "auto" // TTY=text, non-TTY=plain
	DefaultClang     = "clang"
	EnvPrefix        = "CNCC_"
)

// ConfigFileNames are searched in the working directory when --config is
// not given.
var ConfigFileNames = []string{".cncc.yaml", ".cncc.yml"}
