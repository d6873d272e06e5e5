package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-vendors/identity"
)

var (
	// Resolution sentinels are owned by the identity package so it can stay
	// a leaf import; they are re-exported here for callers working at the
	// service level.
	ErrIdentifierUnresolvable = identity.ErrUnresolvable
	ErrOrganizationRequired   = identity.ErrOrganizationRequired

	ErrCredentialsNotFound    = errors.New("core: vendor credentials not found")
	ErrVendorTypeNotFound     = errors.New("core: vendor type not found")
	ErrVendorInstanceNotFound = errors.New("core: vendor instance not found")
	ErrVendorSlugTaken        = errors.New("core: vendor slug already registered")
)

type InstanceStatus string

const (
	InstanceStatusActive       InstanceStatus = "active"
	InstanceStatusDisconnected InstanceStatus = "disconnected"
)

// VendorType is the catalog-wide definition of one external supplier
// integration. The Slug is frozen at creation and backs every
// system-internal lookup; everything else is display metadata and stays
// editable.
type VendorType struct {
	ID                int64
	Name              string
	Slug              string
	ShortCode         string
	RetailVerticalIDs []int64
	Enabled           bool
	CredentialSchema  CredentialSchema
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (t VendorType) ServesVertical(verticalID int64) bool {
	for _, id := range t.RetailVerticalIDs {
		if id == verticalID {
			return true
		}
	}
	return false
}

// VendorInstance binds one organization to a vendor type. VendorSlug is
// copied verbatim from the type at creation and never re-synced; the type
// slug never changes, so the copy cannot drift.
type VendorInstance struct {
	ID           string
	OrgID        string
	VendorTypeID int64
	VendorSlug   string
	InstanceSlug string
	ShortCode    string
	Status       InstanceStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type RetailVertical struct {
	ID   int64
	Name string
	Slug string
}

// CredentialPayload is the schema-on-read credential document. Keys are
// persisted exactly as supplied by the caller; the storage layer never
// renames or re-cases them.
type CredentialPayload map[string]any

func (p CredentialPayload) Keys() []string {
	keys := make([]string, 0, len(p))
	for key := range p {
		keys = append(keys, key)
	}
	return keys
}

func (p CredentialPayload) Clone() CredentialPayload {
	if len(p) == 0 {
		return CredentialPayload{}
	}
	out := make(CredentialPayload, len(p))
	for key, value := range p {
		out[key] = value
	}
	return out
}

// OperationalState holds the non-secret, fleet-queryable fields that live in
// dedicated columns beside the credential document.
type OperationalState struct {
	SyncEnabled      bool
	LastSyncAt       *time.Time
	LastSyncStatus   string
	ConnectionStatus string
}

type CreateVendorTypeInput struct {
	Name              string
	Slug              string
	ShortCode         string
	RetailVerticalIDs []int64
	Enabled           bool
	CredentialSchema  CredentialSchema
}

func (in CreateVendorTypeInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" && strings.TrimSpace(in.Slug) == "" {
		return fmt.Errorf("core: vendor type requires a name or an explicit slug")
	}
	return nil
}

type CreateInstanceInput struct {
	OrgID        string
	VendorTypeID int64
	VendorSlug   string
	InstanceSlug string
	ShortCode    string
	Status       InstanceStatus
}

func (in CreateInstanceInput) Validate() error {
	if strings.TrimSpace(in.OrgID) == "" {
		return ErrOrganizationRequired
	}
	if in.VendorTypeID <= 0 {
		return fmt.Errorf("core: vendor type id is required")
	}
	if strings.TrimSpace(in.VendorSlug) == "" {
		return fmt.Errorf("core: vendor slug is required")
	}
	if strings.TrimSpace(in.InstanceSlug) == "" {
		return fmt.Errorf("core: instance slug is required")
	}
	return nil
}

type ProvisionRequest struct {
	OrgID string
	// RetailVerticalID filters eligible vendor types. Nil means no
	// filtering: organizations created before classification existed see
	// every enabled type.
	RetailVerticalID *int64
}

func (r ProvisionRequest) Validate() error {
	if strings.TrimSpace(r.OrgID) == "" {
		return ErrOrganizationRequired
	}
	return nil
}
