package query

import (
	"context"

	"github.com/goliatone/go-vendors/core"
	"github.com/goliatone/go-vendors/identity"
)

type VendorTypeReader interface {
	GetVendorType(ctx context.Context, id int64) (core.VendorType, error)
	GetVendorTypeBySlug(ctx context.Context, slug string) (core.VendorType, error)
	ListEnabledVendorTypes(ctx context.Context) ([]core.VendorType, error)
}

type VendorInstanceReader interface {
	ListInstances(ctx context.Context, orgID string) ([]core.VendorInstance, error)
}

type CredentialReader interface {
	LoadCredentials(ctx context.Context, orgID string, vendorTypeID int64) (core.CredentialPayload, error)
	GetSyncStatus(ctx context.Context, orgID string, vendorTypeID int64) (core.OperationalState, error)
}

type IdentifierResolver interface {
	Resolve(ref identity.VendorRef) (identity.Resolution, error)
	BuildAPIPath(orgID string, ref identity.VendorRef, endpoint string) (string, error)
}

type GetVendorTypeQuery struct {
	reader VendorTypeReader
}

func NewGetVendorTypeQuery(reader VendorTypeReader) *GetVendorTypeQuery {
	return &GetVendorTypeQuery{reader: reader}
}

func (q *GetVendorTypeQuery) Query(ctx context.Context, msg GetVendorTypeMessage) (core.VendorType, error) {
	if q == nil || q.reader == nil {
		return core.VendorType{}, queryDependencyError("query: vendor type reader is required")
	}
	return q.reader.GetVendorType(ctx, msg.VendorTypeID)
}

type GetVendorTypeBySlugQuery struct {
	reader VendorTypeReader
}

func NewGetVendorTypeBySlugQuery(reader VendorTypeReader) *GetVendorTypeBySlugQuery {
	return &GetVendorTypeBySlugQuery{reader: reader}
}

func (q *GetVendorTypeBySlugQuery) Query(ctx context.Context, msg GetVendorTypeBySlugMessage) (core.VendorType, error) {
	if q == nil || q.reader == nil {
		return core.VendorType{}, queryDependencyError("query: vendor type reader is required")
	}
	return q.reader.GetVendorTypeBySlug(ctx, msg.Slug)
}

type ListEnabledVendorTypesQuery struct {
	reader VendorTypeReader
}

func NewListEnabledVendorTypesQuery(reader VendorTypeReader) *ListEnabledVendorTypesQuery {
	return &ListEnabledVendorTypesQuery{reader: reader}
}

func (q *ListEnabledVendorTypesQuery) Query(
	ctx context.Context,
	msg ListEnabledVendorTypesMessage,
) ([]core.VendorType, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: vendor type reader is required")
	}
	return q.reader.ListEnabledVendorTypes(ctx)
}

type ListInstancesQuery struct {
	reader VendorInstanceReader
}

func NewListInstancesQuery(reader VendorInstanceReader) *ListInstancesQuery {
	return &ListInstancesQuery{reader: reader}
}

func (q *ListInstancesQuery) Query(ctx context.Context, msg ListInstancesMessage) ([]core.VendorInstance, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: vendor instance reader is required")
	}
	return q.reader.ListInstances(ctx, msg.OrgID)
}

type LoadCredentialsQuery struct {
	reader CredentialReader
}

func NewLoadCredentialsQuery(reader CredentialReader) *LoadCredentialsQuery {
	return &LoadCredentialsQuery{reader: reader}
}

func (q *LoadCredentialsQuery) Query(ctx context.Context, msg LoadCredentialsMessage) (core.CredentialPayload, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: credential reader is required")
	}
	return q.reader.LoadCredentials(ctx, msg.OrgID, msg.VendorTypeID)
}

type GetSyncStatusQuery struct {
	reader CredentialReader
}

func NewGetSyncStatusQuery(reader CredentialReader) *GetSyncStatusQuery {
	return &GetSyncStatusQuery{reader: reader}
}

func (q *GetSyncStatusQuery) Query(ctx context.Context, msg GetSyncStatusMessage) (core.OperationalState, error) {
	if q == nil || q.reader == nil {
		return core.OperationalState{}, queryDependencyError("query: credential reader is required")
	}
	return q.reader.GetSyncStatus(ctx, msg.OrgID, msg.VendorTypeID)
}

type ResolveIdentifierQuery struct {
	resolver IdentifierResolver
}

func NewResolveIdentifierQuery(resolver IdentifierResolver) *ResolveIdentifierQuery {
	return &ResolveIdentifierQuery{resolver: resolver}
}

func (q *ResolveIdentifierQuery) Query(
	ctx context.Context,
	msg ResolveIdentifierMessage,
) (identity.Resolution, error) {
	if q == nil || q.resolver == nil {
		return identity.Resolution{}, queryDependencyError("query: identifier resolver is required")
	}
	return q.resolver.Resolve(msg.Ref)
}

type BuildVendorAPIRouteQuery struct {
	resolver IdentifierResolver
}

func NewBuildVendorAPIRouteQuery(resolver IdentifierResolver) *BuildVendorAPIRouteQuery {
	return &BuildVendorAPIRouteQuery{resolver: resolver}
}

func (q *BuildVendorAPIRouteQuery) Query(ctx context.Context, msg BuildVendorAPIRouteMessage) (string, error) {
	if q == nil || q.resolver == nil {
		return "", queryDependencyError("query: identifier resolver is required")
	}
	return q.resolver.BuildAPIPath(msg.OrgID, msg.Ref, msg.Endpoint)
}
