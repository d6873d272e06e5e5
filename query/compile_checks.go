package query

import (
	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-vendors/core"
	"github.com/goliatone/go-vendors/identity"
)

var (
	_ gocmd.Querier[GetVendorTypeMessage, core.VendorType]             = (*GetVendorTypeQuery)(nil)
	_ gocmd.Querier[GetVendorTypeBySlugMessage, core.VendorType]       = (*GetVendorTypeBySlugQuery)(nil)
	_ gocmd.Querier[ListEnabledVendorTypesMessage, []core.VendorType]  = (*ListEnabledVendorTypesQuery)(nil)
	_ gocmd.Querier[ListInstancesMessage, []core.VendorInstance]       = (*ListInstancesQuery)(nil)
	_ gocmd.Querier[LoadCredentialsMessage, core.CredentialPayload]    = (*LoadCredentialsQuery)(nil)
	_ gocmd.Querier[GetSyncStatusMessage, core.OperationalState]       = (*GetSyncStatusQuery)(nil)
	_ gocmd.Querier[ResolveIdentifierMessage, identity.Resolution]     = (*ResolveIdentifierQuery)(nil)
	_ gocmd.Querier[BuildVendorAPIRouteMessage, string]                = (*BuildVendorAPIRouteQuery)(nil)
)
