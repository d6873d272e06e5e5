package core

import (
	"context"

	glog "github.com/goliatone/go-logger/glog"
)

type Logger = glog.Logger

type LoggerProvider = glog.LoggerProvider

type FieldsLogger = glog.FieldsLogger

type MetricsRecorder interface {
	IncCounter(ctx context.Context, name string, value int64, tags map[string]string)
	ObserveHistogram(ctx context.Context, name string, value float64, tags map[string]string)
}

type NopMetricsRecorder struct{}

func (NopMetricsRecorder) IncCounter(context.Context, string, int64, map[string]string)        {}
func (NopMetricsRecorder) ObserveHistogram(context.Context, string, float64, map[string]string) {}

// VendorTypeStore persists the catalog of supported vendor types. Updates go
// through UpdateFields so the immutability guard can interpose on the raw
// patch before anything reaches storage.
type VendorTypeStore interface {
	Create(ctx context.Context, in CreateVendorTypeInput) (VendorType, error)
	Get(ctx context.Context, id int64) (VendorType, error)
	GetBySlug(ctx context.Context, slug string) (VendorType, error)
	ListEnabled(ctx context.Context) ([]VendorType, error)
	UpdateFields(ctx context.Context, id int64, fields map[string]any) (VendorType, error)
}

type VendorInstanceStore interface {
	// CreateIfAbsent treats eligibility-check plus insert as one atomic
	// step per vendor type; the unique (org_id, vendor_type_id,
	// instance_slug) index is the backstop for concurrent provisioning.
	CreateIfAbsent(ctx context.Context, in CreateInstanceInput) (VendorInstance, bool, error)
	Get(ctx context.Context, id string) (VendorInstance, error)
	ListByOrg(ctx context.Context, orgID string) ([]VendorInstance, error)
	CountByOrgAndType(ctx context.Context, orgID string, vendorTypeID int64) (int, error)
	UpdateShortCode(ctx context.Context, id string, shortCode string) error
	Disconnect(ctx context.Context, id string) error
}

// CredentialStore is the dual-shape adapter described in the migration
// plan: one interface, one implementation fanning out to the document and
// legacy representations. When the migration completes the legacy branch
// disappears without touching any caller.
type CredentialStore interface {
	Save(ctx context.Context, orgID string, vendorTypeID int64, payload CredentialPayload) error
	Load(ctx context.Context, orgID string, vendorTypeID int64) (CredentialPayload, error)
	SetOperationalState(ctx context.Context, orgID string, vendorTypeID int64, state OperationalState) error
	GetOperationalState(ctx context.Context, orgID string, vendorTypeID int64) (OperationalState, error)
}

// PlanLimiter is the external plan/subscription collaborator. A false second
// return means the plan is unbounded.
type PlanLimiter interface {
	GetVendorLimit(ctx context.Context, orgID string) (int, bool, error)
}

type UnboundedPlanLimiter struct{}

func (UnboundedPlanLimiter) GetVendorLimit(context.Context, string) (int, bool, error) {
	return 0, false, nil
}

type StoreProvider interface {
	VendorTypeStore() VendorTypeStore
	VendorInstanceStore() VendorInstanceStore
	CredentialStore() CredentialStore
}

type RepositoryStoreFactory interface {
	BuildStores(persistenceClient any) (StoreProvider, error)
}
