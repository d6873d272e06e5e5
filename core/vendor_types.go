package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-vendors/identity"
)

// Patch keys the guard strips before an update reaches storage. Both
// spellings occur in the wild: API clients send "vendor_slug", older admin
// tooling sends "slug".
var immutableVendorTypeFields = []string{"vendor_slug", "slug"}

// CreateVendorType registers a new supported vendor type in the catalog.
// The slug is derived from the name when not supplied explicitly and is
// frozen from this point on.
func (s *Service) CreateVendorType(ctx context.Context, in CreateVendorTypeInput) (VendorType, error) {
	startedAt := time.Now()
	created, err := s.createVendorType(ctx, in)
	s.observeOperation(ctx, startedAt, "vendor_type_create", err, map[string]any{
		"vendor_slug": created.Slug,
	})
	if err != nil {
		return VendorType{}, mapBuildError(s.errorMapper, err)
	}
	return created, nil
}

func (s *Service) createVendorType(ctx context.Context, in CreateVendorTypeInput) (VendorType, error) {
	if s == nil || s.vendorTypeStore == nil {
		return VendorType{}, fmt.Errorf("core: vendor type store is not configured")
	}
	if err := in.Validate(); err != nil {
		return VendorType{}, err
	}

	slug := strings.ToLower(strings.TrimSpace(in.Slug))
	if slug == "" {
		slug = identity.NormalizeName(in.Name)
	}
	resolution, err := s.resolver.Resolve(identity.VendorRef{VendorSlug: slug})
	if err != nil {
		return VendorType{}, err
	}
	in.Slug = resolution.Identifier

	if _, err := s.vendorTypeStore.GetBySlug(ctx, in.Slug); err == nil {
		return VendorType{}, fmt.Errorf("%w: %q", ErrVendorSlugTaken, in.Slug)
	}

	return s.vendorTypeStore.Create(ctx, in)
}

// UpdateVendorType is the immutability guard over vendor type mutations. A
// patch touching the canonical slug never errors: the forbidden key is
// dropped, a structured warning is emitted, and the rest of the patch is
// applied normally. Erroring here would break the admin UX for what is
// usually a stale client resubmitting a full form.
func (s *Service) UpdateVendorType(ctx context.Context, id int64, patch map[string]any) (VendorType, error) {
	startedAt := time.Now()
	updated, err := s.updateVendorType(ctx, id, patch)
	s.observeOperation(ctx, startedAt, "vendor_type_update", err, map[string]any{
		"vendor_type_id": id,
	})
	if err != nil {
		return VendorType{}, mapBuildError(s.errorMapper, err)
	}
	return updated, nil
}

func (s *Service) updateVendorType(ctx context.Context, id int64, patch map[string]any) (VendorType, error) {
	if s == nil || s.vendorTypeStore == nil {
		return VendorType{}, fmt.Errorf("core: vendor type store is not configured")
	}
	if id <= 0 {
		return VendorType{}, fmt.Errorf("core: vendor type id is required")
	}

	sanitized := make(map[string]any, len(patch))
	for key, value := range patch {
		sanitized[strings.ToLower(strings.TrimSpace(key))] = value
	}
	for _, field := range immutableVendorTypeFields {
		rejected, present := sanitized[field]
		if !present {
			continue
		}
		delete(sanitized, field)
		s.warnEvent(ctx, EventImmutableFieldRejected, map[string]any{
			"vendor_type_id": id,
			"field":          field,
			"rejected_value": fmt.Sprint(rejected),
		})
	}

	if len(sanitized) == 0 {
		// Nothing left to apply; return current state so callers see a
		// successful no-op rather than an error.
		return s.vendorTypeStore.Get(ctx, id)
	}
	return s.vendorTypeStore.UpdateFields(ctx, id, sanitized)
}

func (s *Service) GetVendorType(ctx context.Context, id int64) (VendorType, error) {
	if s == nil || s.vendorTypeStore == nil {
		return VendorType{}, fmt.Errorf("core: vendor type store is not configured")
	}
	vendorType, err := s.vendorTypeStore.Get(ctx, id)
	if err != nil {
		return VendorType{}, mapBuildError(s.errorMapper, err)
	}
	return vendorType, nil
}

func (s *Service) GetVendorTypeBySlug(ctx context.Context, slug string) (VendorType, error) {
	if s == nil || s.vendorTypeStore == nil {
		return VendorType{}, fmt.Errorf("core: vendor type store is not configured")
	}
	vendorType, err := s.vendorTypeStore.GetBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		return VendorType{}, mapBuildError(s.errorMapper, err)
	}
	return vendorType, nil
}

func (s *Service) ListEnabledVendorTypes(ctx context.Context) ([]VendorType, error) {
	if s == nil || s.vendorTypeStore == nil {
		return nil, fmt.Errorf("core: vendor type store is not configured")
	}
	types, err := s.vendorTypeStore.ListEnabled(ctx)
	if err != nil {
		return nil, mapBuildError(s.errorMapper, err)
	}
	return types, nil
}
