package query

import (
	"strings"

	"github.com/goliatone/go-vendors/identity"
)

const (
	TypeGetVendorType       = "vendors.query.vendor_type.get"
	TypeGetVendorTypeBySlug = "vendors.query.vendor_type.get_by_slug"
	TypeListEnabledVendors  = "vendors.query.vendor_type.list_enabled"
	TypeListInstances       = "vendors.query.instance.list"
	TypeLoadCredentials     = "vendors.query.credentials.load"
	TypeGetSyncStatus       = "vendors.query.sync_status.get"
	TypeResolveIdentifier   = "vendors.query.identifier.resolve"
	TypeBuildVendorAPIRoute = "vendors.query.identifier.build_route"
)

type GetVendorTypeMessage struct {
	VendorTypeID int64
}

func (GetVendorTypeMessage) Type() string { return TypeGetVendorType }

func (m GetVendorTypeMessage) Validate() error {
	if m.VendorTypeID <= 0 {
		return queryInvalidInputError("query: vendor type id is required")
	}
	return nil
}

type GetVendorTypeBySlugMessage struct {
	Slug string
}

func (GetVendorTypeBySlugMessage) Type() string { return TypeGetVendorTypeBySlug }

func (m GetVendorTypeBySlugMessage) Validate() error {
	if strings.TrimSpace(m.Slug) == "" {
		return queryInvalidInputError("query: vendor slug is required")
	}
	return nil
}

type ListEnabledVendorTypesMessage struct{}

func (ListEnabledVendorTypesMessage) Type() string { return TypeListEnabledVendors }

func (ListEnabledVendorTypesMessage) Validate() error { return nil }

type ListInstancesMessage struct {
	OrgID string
}

func (ListInstancesMessage) Type() string { return TypeListInstances }

func (m ListInstancesMessage) Validate() error {
	if strings.TrimSpace(m.OrgID) == "" {
		return queryInvalidInputError("query: organization id is required")
	}
	return nil
}

type LoadCredentialsMessage struct {
	OrgID        string
	VendorTypeID int64
}

func (LoadCredentialsMessage) Type() string { return TypeLoadCredentials }

func (m LoadCredentialsMessage) Validate() error {
	if strings.TrimSpace(m.OrgID) == "" {
		return queryInvalidInputError("query: organization id is required")
	}
	if m.VendorTypeID <= 0 {
		return queryInvalidInputError("query: vendor type id is required")
	}
	return nil
}

type GetSyncStatusMessage struct {
	OrgID        string
	VendorTypeID int64
}

func (GetSyncStatusMessage) Type() string { return TypeGetSyncStatus }

func (m GetSyncStatusMessage) Validate() error {
	if strings.TrimSpace(m.OrgID) == "" {
		return queryInvalidInputError("query: organization id is required")
	}
	if m.VendorTypeID <= 0 {
		return queryInvalidInputError("query: vendor type id is required")
	}
	return nil
}

type ResolveIdentifierMessage struct {
	Ref identity.VendorRef
}

func (ResolveIdentifierMessage) Type() string { return TypeResolveIdentifier }

func (m ResolveIdentifierMessage) Validate() error {
	if m.Ref.IsEmpty() {
		return queryInvalidInputError("query: at least one vendor identifier field is required")
	}
	return nil
}

type BuildVendorAPIRouteMessage struct {
	OrgID    string
	Ref      identity.VendorRef
	Endpoint string
}

func (BuildVendorAPIRouteMessage) Type() string { return TypeBuildVendorAPIRoute }

func (m BuildVendorAPIRouteMessage) Validate() error {
	if strings.TrimSpace(m.OrgID) == "" {
		return queryInvalidInputError("query: organization id is required")
	}
	if m.Ref.IsEmpty() {
		return queryInvalidInputError("query: at least one vendor identifier field is required")
	}
	return nil
}
