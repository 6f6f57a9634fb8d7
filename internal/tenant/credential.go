// Package tenant models the target tenants an upload run fans out to. Each
// tenant is a named credential set pointing at one API host; runs address
// tenants by name, so names must be unique within a loaded settings set.
//
// Credentials come from either numbered environment variables or an explicit
// config file. Both paths normalize into the same Credential value so the
// rest of the pipeline never cares where configuration came from.
package tenant

import (
	"fmt"

	"github.com/ridgeline-sec/xdrsync/internal/validate"
)

// Credential holds everything needed to authenticate against one tenant's
// ingestion API. Advanced selects the signed authentication scheme; it
// defaults to true because standard-mode keys are increasingly restricted
// on production tenants.
type Credential struct {
	Name     string // unique tenant identifier used in flags and reports
	Host     string // API host without scheme, e.g. api-acme.xdr.us.paloaltonetworks.com
	APIKeyID string // numeric key identifier issued alongside the key
	APIKey   string // raw API key material, never logged
	Advanced bool   // true for signed (advanced) auth, false for standard
}

// BaseURL returns the https endpoint root for this tenant.
func (c Credential) BaseURL() string {
	return "https://" + c.Host
}

// Validate checks that the credential is complete and well formed.
func (c Credential) Validate() error {
	if err := validate.Credential(c.Name, c.Host, c.APIKeyID, c.APIKey); err != nil {
		return fmt.Errorf("tenant %q: %w", c.Name, err)
	}
	return nil
}
