// Package config loads the optional .respect.json / .respect.yaml settings
// shared by the test fixture and the CLI.
package config

// Config represents a respect configuration file.
type Config struct {
	// ResourcesDir is the base directory for resources, relative to the
	// directory of the test file.
	ResourcesDir string `json:"resources_dir,omitempty" yaml:"resources_dir,omitempty"`

	// NDigits is the default rounding precision; nil disables rounding.
	NDigits *int `json:"ndigits,omitempty" yaml:"ndigits,omitempty"`

	Codec     string `json:"codec,omitempty" yaml:"codec,omitempty"`
	PathMaker string `json:"path_maker,omitempty" yaml:"path_maker,omitempty"`
	ListMaker string `json:"list_maker,omitempty" yaml:"list_maker,omitempty"`

	WriteActual *bool  `json:"write_actual,omitempty" yaml:"write_actual,omitempty"`
	AcceptEnv   string `json:"accept_env,omitempty" yaml:"accept_env,omitempty"`
}

// FileNames lists the config file names looked up in each directory,
// in order of preference.
var FileNames = []string{".respect.json", ".respect.yaml", ".respect.yml"}

// Codec names accepted in the codec field.
var CodecNames = []string{"json", "compact", "json5", "yaml"}

// Path maker names accepted in the path_maker and list_maker fields.
var MakerNames = []string{"file", "function", "class", "dir"}
