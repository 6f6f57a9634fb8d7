package tenant

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Settings is the loaded set of tenants for a run. Tenants keep their
// configured order so fan-out output is stable across runs.
type Settings struct {
	Tenants  []Credential
	LogLevel string
}

// Get returns the tenant with the given name, or false if none matches.
func (s *Settings) Get(name string) (Credential, bool) {
	for _, t := range s.Tenants {
		if t.Name == name {
			return t, true
		}
	}
	return Credential{}, false
}

// Select resolves a list of tenant names against the settings. An empty or
// nil list selects every configured tenant. Unknown names are an error so a
// typo never silently shrinks the target set.
func (s *Settings) Select(names []string) ([]Credential, error) {
	if len(names) == 0 {
		return s.Tenants, nil
	}

	selected := make([]Credential, 0, len(names))
	for _, name := range names {
		cred, ok := s.Get(name)
		if !ok {
			return nil, fmt.Errorf("tenant %q not found in configuration (available: %s)",
				name, strings.Join(s.Names(), ", "))
		}
		selected = append(selected, cred)
	}
	return selected, nil
}

// Names returns every configured tenant name in configured order.
func (s *Settings) Names() []string {
	names := make([]string, len(s.Tenants))
	for i, t := range s.Tenants {
		names[i] = t.Name
	}
	return names
}

// validateSet checks every credential and rejects duplicate names.
func (s *Settings) validateSet() error {
	if len(s.Tenants) == 0 {
		return fmt.Errorf("no tenants configured")
	}

	seen := make(map[string]bool, len(s.Tenants))
	for _, t := range s.Tenants {
		if err := t.Validate(); err != nil {
			return err
		}
		if seen[t.Name] {
			return fmt.Errorf("duplicate tenant name %q in configuration", t.Name)
		}
		seen[t.Name] = true
	}
	return nil
}

// fileTenant mirrors one tenant entry in a config file. The wire names
// follow the documented config format, which calls the host "fqdn".
type fileTenant struct {
	Name     string `json:"name" yaml:"name"`
	FQDN     string `json:"fqdn" yaml:"fqdn"`
	APIKeyID string `json:"api_key_id" yaml:"api_key_id"`
	APIKey   string `json:"api_key" yaml:"api_key"`
	Advanced *bool  `json:"advanced" yaml:"advanced"`
}

type fileSettings struct {
	Tenants  []fileTenant `json:"tenants" yaml:"tenants"`
	LogLevel string       `json:"log_level" yaml:"log_level"`
}

// LoadFile loads tenant settings from a JSON or YAML config file. The
// format is picked by extension: .yaml and .yml parse as YAML, everything
// else as JSON. The advanced flag defaults to true when omitted.
func LoadFile(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var parsed fileSettings
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &parsed); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, &parsed); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config %s: %w", path, err)
		}
	}

	if parsed.Tenants == nil {
		return nil, fmt.Errorf("config file %s must contain a 'tenants' key", path)
	}

	settings := &Settings{LogLevel: strings.ToUpper(parsed.LogLevel)}
	for i, ft := range parsed.Tenants {
		if ft.Name == "" || ft.FQDN == "" || ft.APIKeyID == "" || ft.APIKey == "" {
			return nil, fmt.Errorf("tenant entry %d in %s is missing a required field (name, fqdn, api_key_id, api_key)",
				i+1, path)
		}
		advanced := true
		if ft.Advanced != nil {
			advanced = *ft.Advanced
		}
		settings.Tenants = append(settings.Tenants, Credential{
			Name:     ft.Name,
			Host:     ft.FQDN,
			APIKeyID: ft.APIKeyID,
			APIKey:   ft.APIKey,
			Advanced: advanced,
		})
	}

	if err := settings.validateSet(); err != nil {
		return nil, err
	}
	return settings, nil
}

// LoadEnvironment builds tenant settings from numbered environment
// variables. Each tenant uses a TENANT{N}_ prefix starting at 1:
//
//	TENANT1_XDR_FQDN, TENANT1_XDR_API_KEY_ID, TENANT1_XDR_API_KEY
//	TENANT1_XDR_NAME (optional, defaults to tenant{N})
//	TENANT1_XDR_ADVANCED (optional, defaults to true)
//
// The first tenant may also use the bare XDR_* names for single-tenant
// setups. Scanning stops at the first missing numbered FQDN so gaps in
// the numbering end the list rather than being skipped.
func LoadEnvironment(lookup func(string) string) (*Settings, error) {
	if lookup == nil {
		lookup = os.Getenv
	}

	var tenants []Credential
	for index := 1; ; index++ {
		prefix := fmt.Sprintf("TENANT%d_", index)
		host := strings.TrimSpace(lookup(prefix + "XDR_FQDN"))
		if host == "" {
			if index == 1 {
				// Fall back to unprefixed names for single-tenant setups.
				host = strings.TrimSpace(lookup("XDR_FQDN"))
				prefix = ""
			}
			if host == "" {
				break
			}
		}

		keyID := strings.TrimSpace(lookup(prefix + "XDR_API_KEY_ID"))
		key := strings.TrimSpace(lookup(prefix + "XDR_API_KEY"))
		if keyID == "" || key == "" {
			return nil, fmt.Errorf("tenant %d has XDR_FQDN set but is missing %sXDR_API_KEY_ID or %sXDR_API_KEY",
				index, prefix, prefix)
		}

		name := strings.TrimSpace(lookup(prefix + "XDR_NAME"))
		if name == "" {
			name = fmt.Sprintf("tenant%d", index)
		}

		tenants = append(tenants, Credential{
			Name:     name,
			Host:     host,
			APIKeyID: keyID,
			APIKey:   key,
			Advanced: parseAdvanced(lookup(prefix + "XDR_ADVANCED")),
		})
	}

	if len(tenants) == 0 {
		return nil, fmt.Errorf("no tenants configured: set TENANT1_XDR_FQDN, TENANT1_XDR_API_KEY_ID and TENANT1_XDR_API_KEY (TENANT2_* for the second tenant, and so on)")
	}

	settings := &Settings{
		Tenants:  tenants,
		LogLevel: strings.ToUpper(lookup("LOG_LEVEL")),
	}
	if err := settings.validateSet(); err != nil {
		return nil, err
	}
	return settings, nil
}

// Load resolves settings from an explicit config file when one was given,
// otherwise from the environment.
func Load(configFile string) (*Settings, error) {
	if configFile != "" {
		return LoadFile(configFile)
	}
	return LoadEnvironment(nil)
}

// parseAdvanced interprets the XDR_ADVANCED variable; empty means true.
func parseAdvanced(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "1", "true", "yes":
		return true
	default:
		return false
	}
}
