package tenant

import (
	"os"
	"path/filepath"
	"testing"
)

func envMap(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

func TestLoadEnvironmentNumberedTenants(t *testing.T) {
	settings, err := LoadEnvironment(envMap(map[string]string{
		"TENANT1_XDR_FQDN":       "api-acme.xdr.us.paloaltonetworks.com",
		"TENANT1_XDR_API_KEY_ID": "42",
		"TENANT1_XDR_API_KEY":    "secret-one",
		"TENANT1_XDR_NAME":       "acme-prod",
		"TENANT2_XDR_FQDN":       "api-acme-dev.xdr.us.paloaltonetworks.com",
		"TENANT2_XDR_API_KEY_ID": "7",
		"TENANT2_XDR_API_KEY":    "secret-two",
		"TENANT2_XDR_ADVANCED":   "false",
	}))
	if err != nil {
		t.Fatalf("expected load to succeed, got: %v", err)
	}

	if len(settings.Tenants) != 2 {
		t.Fatalf("expected 2 tenants, got %d", len(settings.Tenants))
	}
	first := settings.Tenants[0]
	if first.Name != "acme-prod" || first.Host != "api-acme.xdr.us.paloaltonetworks.com" {
		t.Fatalf("unexpected first tenant: %+v", first)
	}
	if !first.Advanced {
		t.Fatalf("expected advanced auth to default to true")
	}
	second := settings.Tenants[1]
	if second.Name != "tenant2" {
		t.Fatalf("expected generated name tenant2, got %q", second.Name)
	}
	if second.Advanced {
		t.Fatalf("expected TENANT2_XDR_ADVANCED=false to disable advanced auth")
	}
}

func TestLoadEnvironmentUnprefixedFallback(t *testing.T) {
	settings, err := LoadEnvironment(envMap(map[string]string{
		"XDR_FQDN":       "api-solo.xdr.eu.paloaltonetworks.com",
		"XDR_API_KEY_ID": "3",
		"XDR_API_KEY":    "solo-secret",
	}))
	if err != nil {
		t.Fatalf("expected single-tenant load to succeed, got: %v", err)
	}
	if len(settings.Tenants) != 1 || settings.Tenants[0].Name != "tenant1" {
		t.Fatalf("unexpected tenants: %+v", settings.Tenants)
	}
}

func TestLoadEnvironmentMissingKeyFails(t *testing.T) {
	_, err := LoadEnvironment(envMap(map[string]string{
		"TENANT1_XDR_FQDN": "api-acme.xdr.us.paloaltonetworks.com",
	}))
	if err == nil {
		t.Fatalf("expected error for FQDN without key material")
	}
}

func TestLoadEnvironmentEmptyFails(t *testing.T) {
	if _, err := LoadEnvironment(envMap(nil)); err == nil {
		t.Fatalf("expected error when no tenants are configured")
	}
}

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadFileJSON(t *testing.T) {
	path := writeConfig(t, "tenants.json", `{
		"tenants": [
			{"name": "prod", "fqdn": "api-prod.xdr.us.paloaltonetworks.com", "api_key_id": "1", "api_key": "a"},
			{"name": "dev", "fqdn": "api-dev.xdr.us.paloaltonetworks.com", "api_key_id": "2", "api_key": "b", "advanced": false}
		],
		"log_level": "debug"
	}`)

	settings, err := LoadFile(path)
	if err != nil {
		t.Fatalf("expected JSON load to succeed, got: %v", err)
	}
	if len(settings.Tenants) != 2 {
		t.Fatalf("expected 2 tenants, got %d", len(settings.Tenants))
	}
	if !settings.Tenants[0].Advanced || settings.Tenants[1].Advanced {
		t.Fatalf("advanced flags decoded wrong: %+v", settings.Tenants)
	}
	if settings.LogLevel != "DEBUG" {
		t.Fatalf("expected log level DEBUG, got %q", settings.LogLevel)
	}
}

func TestLoadFileYAML(t *testing.T) {
	path := writeConfig(t, "tenants.yaml", `
tenants:
  - name: prod
    fqdn: api-prod.xdr.us.paloaltonetworks.com
    api_key_id: "1"
    api_key: a
`)
	settings, err := LoadFile(path)
	if err != nil {
		t.Fatalf("expected YAML load to succeed, got: %v", err)
	}
	if len(settings.Tenants) != 1 || settings.Tenants[0].Name != "prod" {
		t.Fatalf("unexpected tenants: %+v", settings.Tenants)
	}
}

func TestLoadFileMissingRequiredField(t *testing.T) {
	path := writeConfig(t, "tenants.json", `{
		"tenants": [{"name": "prod", "fqdn": "api-prod.xdr.us.paloaltonetworks.com", "api_key_id": "1"}]
	}`)
	if _, err := LoadFile(path); err == nil {
		t.Fatalf("expected error for tenant entry missing api_key")
	}
}

func TestLoadFileMissingTenantsKey(t *testing.T) {
	path := writeConfig(t, "tenants.json", `{"log_level": "info"}`)
	if _, err := LoadFile(path); err == nil {
		t.Fatalf("expected error for config without tenants key")
	}
}

func TestLoadFileDuplicateNames(t *testing.T) {
	path := writeConfig(t, "tenants.json", `{
		"tenants": [
			{"name": "prod", "fqdn": "api-a.xdr.us.paloaltonetworks.com", "api_key_id": "1", "api_key": "a"},
			{"name": "prod", "fqdn": "api-b.xdr.us.paloaltonetworks.com", "api_key_id": "2", "api_key": "b"}
		]
	}`)
	if _, err := LoadFile(path); err == nil {
		t.Fatalf("expected error for duplicate tenant names")
	}
}

func TestSelect(t *testing.T) {
	settings := &Settings{Tenants: []Credential{
		{Name: "a", Host: "api-a.example.com", APIKeyID: "1", APIKey: "x", Advanced: true},
		{Name: "b", Host: "api-b.example.com", APIKeyID: "2", APIKey: "y", Advanced: true},
	}}

	all, err := settings.Select(nil)
	if err != nil || len(all) != 2 {
		t.Fatalf("expected nil selection to return all tenants, got %d (%v)", len(all), err)
	}

	picked, err := settings.Select([]string{"b"})
	if err != nil || len(picked) != 1 || picked[0].Name != "b" {
		t.Fatalf("unexpected selection: %+v (%v)", picked, err)
	}

	if _, err := settings.Select([]string{"missing"}); err == nil {
		t.Fatalf("expected error for unknown tenant name")
	}
}
