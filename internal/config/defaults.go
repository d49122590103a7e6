package config

// Default configuration values.
const (
	DefaultPostgresPort = 5432
)

// ApplyDefaults applies default values to the config and all of its
// targets.
func (c *Config) ApplyDefaults() {
	if c == nil {
		return
	}
	if c.DefaultTarget == "" && len(c.Targets) == 1 {
		for name := range c.Targets {
			c.DefaultTarget = name
		}
	}
	for name, t := range c.Targets {
		t.ApplyDefaults()
		c.Targets[name] = t
	}
}

// ApplyDefaults applies type-specific default values to a target.
func (t *TargetConfig) ApplyDefaults() {
	if t.Schema == "" {
		t.Schema = DefaultSchemaForType(t.Type)
	}
	if t.Type == "postgres" && t.Port == 0 {
		t.Port = DefaultPostgresPort
	}
}
