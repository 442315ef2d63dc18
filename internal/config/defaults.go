package config

// Default configuration values.
const (
	DefaultResourcesDir = "testdata"
	DefaultCodec        = "json"
	DefaultPathMaker    = "file"
	DefaultListMaker    = "file"
	DefaultWriteActual  = true
	DefaultAcceptEnv    = "RESPECT_ACCEPT"
)

// Default returns the configuration used when no config file is found.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// applyDefaults fills in default values for unset configuration fields.
// NDigits has no default: rounding stays off unless configured.
func applyDefaults(cfg *Config) {
	if cfg.ResourcesDir == "" {
		cfg.ResourcesDir = DefaultResourcesDir
	}
	if cfg.Codec == "" {
		cfg.Codec = DefaultCodec
	}
	if cfg.PathMaker == "" {
		cfg.PathMaker = DefaultPathMaker
	}
	if cfg.ListMaker == "" {
		cfg.ListMaker = DefaultListMaker
	}
	if cfg.WriteActual == nil {
		v := DefaultWriteActual
		cfg.WriteActual = &v
	}
	if cfg.AcceptEnv == "" {
		cfg.AcceptEnv = DefaultAcceptEnv
	}
}
