// Package validate provides credential validation for xdrsync tenants, ensuring
// every configured backend has a usable credential before any network call.
//
// VALIDATION COVERAGE:
//   - Tenant names: Format validation for tenant identifiers
//   - Host names: FQDN validation for tenant API endpoints
//   - API keys: Required key and key ID checking
//
// Used by tenant configuration loading and CLI flag processing to ensure
// consistent input validation across all entry points.

package validate

import (
	"fmt"
	"regexp"
	"strings"
)

// tenantNameRegex matches the allowed tenant name alphabet. Names feed into
// report file names and log lines, so the alphabet stays filesystem safe.
var tenantNameRegex = regexp.MustCompile(`^[a-z0-9_-]+$`)

// TenantNameFormat validates tenant names against naming requirements.
// Ensures names contain only [a-z0-9_-] and don't start/end with special
// characters.
//
// Necessary for report file naming, log correlation, and --tenants selection
// on the command line.
func TenantNameFormat(name string) error {
	if name == "" {
		return fmt.Errorf("tenant name cannot be empty")
	}

	if !tenantNameRegex.MatchString(name) {
		return fmt.Errorf("tenant name '%s' must contain only lowercase letters [a-z], numbers [0-9], hyphens (-), and underscores (_)", name)
	}

	if strings.HasPrefix(name, "-") || strings.HasPrefix(name, "_") ||
		strings.HasSuffix(name, "-") || strings.HasSuffix(name, "_") {
		return fmt.Errorf("tenant name '%s' cannot start or end with hyphen (-) or underscore (_)", name)
	}

	return nil
}

// TenantHost validates a tenant API host. The host is the bare FQDN of the
// backend (no scheme, no path); the client prepends https:// itself, so a
// scheme here indicates a copy/paste mistake worth a clear message.
func TenantHost(host string) error {
	if host == "" {
		return fmt.Errorf("tenant host cannot be empty")
	}
	if strings.Contains(host, "://") {
		return fmt.Errorf("tenant host '%s' must not include a scheme (use the bare FQDN)", host)
	}
	if err := ValidateField(host, "required,fqdn"); err != nil {
		return fmt.Errorf("tenant host '%s' is not a valid FQDN", host)
	}
	return nil
}

// Credential validates a complete tenant credential set: name, host, key ID,
// and key. Returns the first problem found so configuration errors surface
// before any request is signed.
func Credential(name, host, apiKeyID, apiKey string) error {
	if err := TenantNameFormat(name); err != nil {
		return err
	}
	if err := TenantHost(host); err != nil {
		return err
	}
	if err := ValidateRequiredString(apiKeyID, "api key id"); err != nil {
		return err
	}
	if err := ValidateRequiredString(apiKey, "api key"); err != nil {
		return err
	}
	return nil
}
