package sqlstore

import (
	"time"

	"github.com/goliatone/go-vendors/core"
)

func (r *vendorTypeRecord) toDomain(verticalIDs []int64) core.VendorType {
	if r == nil {
		return core.VendorType{}
	}
	return core.VendorType{
		ID:                r.ID,
		Name:              r.Name,
		Slug:              r.Slug,
		ShortCode:         r.ShortCode,
		RetailVerticalIDs: append([]int64(nil), verticalIDs...),
		Enabled:           r.Enabled,
		CredentialSchema:  r.CredentialSchema,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}

func newVendorInstanceRecord(in core.CreateInstanceInput, now time.Time) *vendorInstanceRecord {
	return &vendorInstanceRecord{
		OrgID:        in.OrgID,
		VendorTypeID: in.VendorTypeID,
		VendorSlug:   in.VendorSlug,
		InstanceSlug: in.InstanceSlug,
		ShortCode:    in.ShortCode,
		Status:       string(in.Status),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func (r *vendorInstanceRecord) toDomain() core.VendorInstance {
	if r == nil {
		return core.VendorInstance{}
	}
	return core.VendorInstance{
		ID:           r.ID,
		OrgID:        r.OrgID,
		VendorTypeID: r.VendorTypeID,
		VendorSlug:   r.VendorSlug,
		InstanceSlug: r.InstanceSlug,
		ShortCode:    r.ShortCode,
		Status:       core.InstanceStatus(r.Status),
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func (r *vendorCredentialRecord) operationalState() core.OperationalState {
	if r == nil {
		return core.OperationalState{}
	}
	state := core.OperationalState{
		SyncEnabled:      r.SyncEnabled != nil && *r.SyncEnabled,
		LastSyncStatus:   r.LastSyncStatus,
		ConnectionStatus: r.ConnectionStatus,
	}
	if r.LastSyncAt != nil {
		at := r.LastSyncAt.UTC()
		state.LastSyncAt = &at
	}
	return state
}
