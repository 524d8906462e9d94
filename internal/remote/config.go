package remote

import (
	"encoding/json"
	"errors"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cuejson "cuelang.org/go/encoding/json"
)

// ConfigKey is the Local Store key under which the connection config blob is
// persisted. Kept verbatim from the original deployment so a stored config
// survives upgrades without re-entry.
const ConfigKey = "firebase-config"

// configSchema constrains the user-supplied connection blob. Unknown fields
// are tolerated (the original config carries extra provider keys); the fields
// the client uses must be well-formed.
const configSchema = `
{
	baseUrl:    string & =~"^https?://"
	apiKey?:    string
	projectId?: string
	...
}
`

// Config is the remote connection configuration supplied by the user as a
// JSON blob.
type Config struct {
	BaseURL   string `json:"baseUrl"`
	APIKey    string `json:"apiKey,omitempty"`
	ProjectID string `json:"projectId,omitempty"`
}

// ConfigError reports a malformed connection blob. The caller is expected to
// leave the remote unconfigured and continue in local-only mode.
type ConfigError struct {
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid remote config: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid remote config: %s", e.Reason)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// IsConfigError reports whether err is (or wraps) a ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// ParseConfig validates a JSON connection blob against the config schema and
// decodes it. The blob is validated with CUE before any field is trusted.
func ParseConfig(blob []byte) (Config, error) {
	expr, err := cuejson.Extract("config", blob)
	if err != nil {
		return Config{}, &ConfigError{Reason: "not valid JSON", Err: err}
	}

	cctx := cuecontext.New()
	schema := cctx.CompileString(configSchema)
	if err := schema.Err(); err != nil {
		return Config{}, fmt.Errorf("compile config schema: %w", err)
	}

	unified := schema.Unify(cctx.BuildExpr(expr))
	if err := unified.Validate(cue.Concrete(true), cue.Final()); err != nil {
		return Config{}, &ConfigError{Reason: "schema violation", Err: err}
	}

	var cfg Config
	if err := json.Unmarshal(blob, &cfg); err != nil {
		return Config{}, &ConfigError{Reason: "decode", Err: err}
	}
	return cfg, nil
}
