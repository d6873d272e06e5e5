package core

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/goliatone/go-vendors/identity"
)

// ProvisionForOrganization instantiates vendor instances for every enabled
// vendor type the organization is eligible for. Idempotent: repeated calls
// only add instances for newly eligible types. Returns the instances
// created by this call.
func (s *Service) ProvisionForOrganization(ctx context.Context, req ProvisionRequest) ([]VendorInstance, error) {
	startedAt := time.Now()
	created, err := s.provisionForOrganization(ctx, req)
	fields := map[string]any{
		"org_id":        req.OrgID,
		"created_count": len(created),
	}
	if req.RetailVerticalID != nil {
		fields["retail_vertical_id"] = *req.RetailVerticalID
	}
	s.observeOperation(ctx, startedAt, "provision_organization", err, fields)
	if err != nil {
		return nil, mapBuildError(s.errorMapper, err)
	}
	return created, nil
}

func (s *Service) provisionForOrganization(ctx context.Context, req ProvisionRequest) ([]VendorInstance, error) {
	if s == nil || s.vendorTypeStore == nil || s.instanceStore == nil {
		return nil, fmt.Errorf("core: provisioning stores are not configured")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	eligible, err := s.eligibleVendorTypes(ctx, req.RetailVerticalID)
	if err != nil {
		return nil, err
	}
	if len(eligible) == 0 {
		return []VendorInstance{}, nil
	}

	existing, err := s.instanceStore.ListByOrg(ctx, req.OrgID)
	if err != nil {
		return nil, WrapStorage(err, "core: list vendor instances")
	}

	limit, bounded, err := s.vendorLimit(ctx, req.OrgID)
	if err != nil {
		return nil, err
	}

	held := len(existing)
	instantiated := make(map[int64]bool, len(existing))
	for _, instance := range existing {
		instantiated[instance.VendorTypeID] = true
	}

	created := []VendorInstance{}
	for _, vendorType := range eligible {
		if instantiated[vendorType.ID] {
			continue
		}
		if bounded && held >= limit {
			break
		}

		instanceSlug, slugErr := s.nextInstanceSlug(ctx, req.OrgID, vendorType)
		if slugErr != nil {
			return nil, slugErr
		}
		instance, added, createErr := s.instanceStore.CreateIfAbsent(ctx, CreateInstanceInput{
			OrgID:        req.OrgID,
			VendorTypeID: vendorType.ID,
			VendorSlug:   vendorType.Slug,
			InstanceSlug: instanceSlug,
			ShortCode:    vendorType.ShortCode,
			Status:       InstanceStatusActive,
		})
		if createErr != nil {
			return nil, WrapStorage(createErr, "core: create vendor instance")
		}
		if added {
			created = append(created, instance)
			held++
		}
	}

	return created, nil
}

// eligibleVendorTypes applies the retail vertical filter. A nil vertical
// means no filtering: legacy organizations predate classification and see
// every enabled type. Ordering is ascending type id so plan-limited
// provisioning stays deterministic across repeated calls.
func (s *Service) eligibleVendorTypes(ctx context.Context, retailVerticalID *int64) ([]VendorType, error) {
	enabled, err := s.vendorTypeStore.ListEnabled(ctx)
	if err != nil {
		return nil, WrapStorage(err, "core: list enabled vendor types")
	}

	eligible := enabled
	if retailVerticalID != nil {
		eligible = eligible[:0:0]
		for _, vendorType := range enabled {
			if vendorType.ServesVertical(*retailVerticalID) {
				eligible = append(eligible, vendorType)
			}
		}
	}
	sort.Slice(eligible, func(i, j int) bool {
		return eligible[i].ID < eligible[j].ID
	})
	return eligible, nil
}

func (s *Service) vendorLimit(ctx context.Context, orgID string) (int, bool, error) {
	limiter := s.planLimiter
	if limiter == nil {
		limiter = UnboundedPlanLimiter{}
	}
	limit, bounded, err := limiter.GetVendorLimit(ctx, orgID)
	if err != nil {
		return 0, false, fmt.Errorf("core: resolve vendor limit: %w", err)
	}
	if bounded && limit < 0 {
		limit = 0
	}
	return limit, bounded, nil
}

// nextInstanceSlug yields the type slug for the first instance of a type
// within an organization and appends a numeric disambiguator for each
// additional one (lipseys, lipseys-2, lipseys-3, ...).
func (s *Service) nextInstanceSlug(ctx context.Context, orgID string, vendorType VendorType) (string, error) {
	count, err := s.instanceStore.CountByOrgAndType(ctx, orgID, vendorType.ID)
	if err != nil {
		return "", WrapStorage(err, "core: count vendor instances")
	}
	resolution, err := s.resolver.Resolve(identity.VendorRef{VendorSlug: vendorType.Slug})
	if err != nil {
		return "", err
	}
	if count == 0 {
		return resolution.Identifier, nil
	}
	return resolution.Identifier + "-" + strconv.Itoa(count+1), nil
}

// DisconnectInstance soft-removes the organization's binding. Historical
// order and shipment records referencing the instance stay intact.
func (s *Service) DisconnectInstance(ctx context.Context, instanceID string) error {
	startedAt := time.Now()
	err := s.disconnectInstance(ctx, instanceID)
	s.observeOperation(ctx, startedAt, "instance_disconnect", err, map[string]any{
		"instance_id": instanceID,
	})
	if err != nil {
		return mapBuildError(s.errorMapper, err)
	}
	return nil
}

func (s *Service) disconnectInstance(ctx context.Context, instanceID string) error {
	if s == nil || s.instanceStore == nil {
		return fmt.Errorf("core: vendor instance store is not configured")
	}
	if err := s.instanceStore.Disconnect(ctx, instanceID); err != nil {
		return WrapStorage(err, "core: disconnect vendor instance")
	}
	return nil
}

func (s *Service) ListInstances(ctx context.Context, orgID string) ([]VendorInstance, error) {
	if s == nil || s.instanceStore == nil {
		return nil, fmt.Errorf("core: vendor instance store is not configured")
	}
	if orgID == "" {
		return nil, mapBuildError(s.errorMapper, ErrOrganizationRequired)
	}
	instances, err := s.instanceStore.ListByOrg(ctx, orgID)
	if err != nil {
		return nil, mapBuildError(s.errorMapper, WrapStorage(err, "core: list vendor instances"))
	}
	return instances, nil
}

func (s *Service) UpdateInstanceShortCode(ctx context.Context, instanceID string, shortCode string) error {
	if s == nil || s.instanceStore == nil {
		return fmt.Errorf("core: vendor instance store is not configured")
	}
	if err := s.instanceStore.UpdateShortCode(ctx, instanceID, shortCode); err != nil {
		return mapBuildError(s.errorMapper, WrapStorage(err, "core: update instance short code"))
	}
	return nil
}
