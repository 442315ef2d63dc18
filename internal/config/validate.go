package config

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// Environment variable names: letters, digits and underscores, not starting with a digit.
var envNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Supported rounding range; beyond 17 digits a float64 has nothing left to round.
const (
	MinNDigits = -15
	MaxNDigits = 17
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks a configuration with defaults applied. The schema covers
// files; Validate also guards configs assembled in code.
func Validate(cfg *Config) error {
	if cfg.NDigits != nil && (*cfg.NDigits < MinNDigits || *cfg.NDigits > MaxNDigits) {
		return &ValidationError{
			Field:   "ndigits",
			Message: fmt.Sprintf("must be between %d and %d", MinNDigits, MaxNDigits),
		}
	}
	if !slices.Contains(CodecNames, cfg.Codec) {
		return &ValidationError{Field: "codec", Message: "must be one of " + strings.Join(CodecNames, ", ")}
	}
	if !slices.Contains(MakerNames, cfg.PathMaker) {
		return &ValidationError{Field: "path_maker", Message: "must be one of " + strings.Join(MakerNames, ", ")}
	}
	if !slices.Contains(MakerNames, cfg.ListMaker) {
		return &ValidationError{Field: "list_maker", Message: "must be one of " + strings.Join(MakerNames, ", ")}
	}
	if cfg.ResourcesDir == "" {
		return &ValidationError{Field: "resources_dir", Message: "is required"}
	}
	if !envNamePattern.MatchString(cfg.AcceptEnv) {
		return &ValidationError{
			Field:   "accept_env",
			Message: "must match pattern ^[A-Za-z_][A-Za-z0-9_]*$",
		}
	}
	return nil
}
