package config

import "github.com/bvquist1400/mission-control/pkg/models"

// AdmissionConfig controls how requests are authenticated. The shared
// secret and owner id themselves are never written to YAML; they are
// read from the environment variables named here at startup.
type AdmissionConfig struct {
	// SessionCookieName is the cookie carrying the operator's session.
	SessionCookieName string `yaml:"session_cookie_name"`

	// APIKeyHeader is the header carrying the shared API key for
	// non-browser clients (scripts, automations).
	APIKeyHeader string `yaml:"api_key_header"`

	// APIKeyQueryParam is the fallback query parameter for clients that
	// cannot set headers (e.g. webhook callback URLs).
	APIKeyQueryParam string `yaml:"api_key_query_param"`

	// APIKeyEnv names the environment variable holding the shared secret.
	APIKeyEnv string `yaml:"api_key_env"`

	// OwnerIDEnv names the environment variable holding the single
	// owner id that API-key admission resolves to.
	OwnerIDEnv string `yaml:"owner_id_env"`
}

// DefaultAdmissionConfig returns the built-in admission defaults.
func DefaultAdmissionConfig() *AdmissionConfig {
	return &AdmissionConfig{
		SessionCookieName: "mc_session",
		APIKeyHeader:      "X-Mission-Control-Key",
		APIKeyQueryParam:  "key",
		APIKeyEnv:         "MISSION_CONTROL_API_KEY",
		OwnerIDEnv:        "MISSION_CONTROL_OWNER_ID",
	}
}

// Config is the fully resolved, validated configuration for one
// running instance, ready for use by every other package.
type Config struct {
	configDir string

	Workday   *WorkdayConfig
	Priority  *PriorityConfig
	Retention *RetentionConfig
	Admission *AdmissionConfig
	Capacity  *CapacityConfig

	ProviderRegistry *ProviderRegistry
	ChainRegistry    *ChainRegistry

	// Catalog indexes every merged catalog row by ID, independent of
	// which feature chains reference it. A user's per-feature
	// preference can name any enabled catalog row, not just one
	// already present in a default chain.
	Catalog map[string]models.LLMModelCatalog
}

// CatalogByID returns the merged catalog row for id.
func (c *Config) CatalogByID(id string) (models.LLMModelCatalog, bool) {
	row, ok := c.Catalog[id]
	return row, ok
}

// ConfigDir returns the directory this configuration was loaded from.
func (c *Config) ConfigDir() string { return c.configDir }

// Stats summarizes loaded configuration for startup logging.
type Stats struct {
	Providers int
	Chains    int
}

// Stats returns summary counts for startup logging.
func (c *Config) Stats() Stats {
	return Stats{
		Providers: c.ProviderRegistry.Len(),
		Chains:    c.ChainRegistry.Len(),
	}
}
