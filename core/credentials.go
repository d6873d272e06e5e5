package core

import (
	"context"
	"fmt"
	"sort"
	"time"
)

// SaveCredentials validates the payload against the vendor type's declared
// schema, persists it through the dual-shape store, then verifies the write
// by reading back and comparing key sets. A verification mismatch is a
// warning, never a failure: the transaction already committed and blocking
// the caller would not undo anything.
func (s *Service) SaveCredentials(ctx context.Context, orgID string, vendorTypeID int64, payload CredentialPayload) error {
	startedAt := time.Now()
	err := s.saveCredentials(ctx, orgID, vendorTypeID, payload)
	s.observeOperation(ctx, startedAt, "credentials_save", err, map[string]any{
		"org_id":         orgID,
		"vendor_type_id": vendorTypeID,
	})
	if err != nil {
		return mapBuildError(s.errorMapper, err)
	}
	return nil
}

func (s *Service) saveCredentials(ctx context.Context, orgID string, vendorTypeID int64, payload CredentialPayload) error {
	if s == nil || s.credentialStore == nil {
		return fmt.Errorf("core: credential store is not configured")
	}
	if orgID == "" {
		return ErrOrganizationRequired
	}
	if vendorTypeID <= 0 {
		return fmt.Errorf("core: vendor type id is required")
	}
	if len(payload) == 0 {
		return fmt.Errorf("core: credential payload is required")
	}

	vendorSlug := ""
	if s.vendorTypeStore != nil {
		vendorType, err := s.vendorTypeStore.Get(ctx, vendorTypeID)
		if err != nil {
			return err
		}
		vendorSlug = vendorType.Slug
		if err := vendorType.CredentialSchema.ValidatePayload(vendorType.Slug, payload); err != nil {
			return err
		}
	}

	if err := s.credentialStore.Save(ctx, orgID, vendorTypeID, payload); err != nil {
		return WrapStorage(err, "core: save credentials")
	}

	s.verifyPersistedKeys(ctx, orgID, vendorTypeID, vendorSlug, payload)
	return nil
}

// verifyPersistedKeys re-loads immediately after a save and flags any
// supplied key that did not survive either storage shape. Guards against
// silent write failures during the dual-write migration window.
func (s *Service) verifyPersistedKeys(ctx context.Context, orgID string, vendorTypeID int64, vendorSlug string, supplied CredentialPayload) {
	persisted, err := s.credentialStore.Load(ctx, orgID, vendorTypeID)
	if err != nil {
		s.warnEvent(ctx, EventPersistenceKeyMismatch, map[string]any{
			"org_id":         orgID,
			"vendor_type_id": vendorTypeID,
			"vendor_slug":    vendorSlug,
			"error":          err.Error(),
		})
		return
	}
	var missing []string
	for key := range supplied {
		if _, ok := persisted[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) == 0 {
		return
	}
	sort.Strings(missing)
	s.warnEvent(ctx, EventPersistenceKeyMismatch, map[string]any{
		"org_id":         orgID,
		"vendor_type_id": vendorTypeID,
		"vendor_slug":    vendorSlug,
		"missing_keys":   missing,
		"supplied_count": len(supplied),
	})
}

// LoadCredentials returns the stored payload for (org, vendor type). The
// store prefers the document shape and reconstructs from legacy columns for
// pre-migration rows; ErrCredentialsNotFound means neither shape has data.
func (s *Service) LoadCredentials(ctx context.Context, orgID string, vendorTypeID int64) (CredentialPayload, error) {
	if s == nil || s.credentialStore == nil {
		return nil, fmt.Errorf("core: credential store is not configured")
	}
	if orgID == "" {
		return nil, mapBuildError(s.errorMapper, ErrOrganizationRequired)
	}
	payload, err := s.credentialStore.Load(ctx, orgID, vendorTypeID)
	if err != nil {
		return nil, mapBuildError(s.errorMapper, err)
	}
	return payload, nil
}

// SetSyncStatus records operational sync state in the dedicated queryable
// columns. It never touches the credential document.
func (s *Service) SetSyncStatus(ctx context.Context, orgID string, vendorTypeID int64, state OperationalState) error {
	startedAt := time.Now()
	err := s.setSyncStatus(ctx, orgID, vendorTypeID, state)
	s.observeOperation(ctx, startedAt, "sync_status_set", err, map[string]any{
		"org_id":         orgID,
		"vendor_type_id": vendorTypeID,
		"status":         state.LastSyncStatus,
	})
	if err != nil {
		return mapBuildError(s.errorMapper, err)
	}
	return nil
}

func (s *Service) setSyncStatus(ctx context.Context, orgID string, vendorTypeID int64, state OperationalState) error {
	if s == nil || s.credentialStore == nil {
		return fmt.Errorf("core: credential store is not configured")
	}
	if orgID == "" {
		return ErrOrganizationRequired
	}
	if err := s.credentialStore.SetOperationalState(ctx, orgID, vendorTypeID, state); err != nil {
		return WrapStorage(err, "core: set operational state")
	}
	return nil
}

func (s *Service) GetSyncStatus(ctx context.Context, orgID string, vendorTypeID int64) (OperationalState, error) {
	if s == nil || s.credentialStore == nil {
		return OperationalState{}, fmt.Errorf("core: credential store is not configured")
	}
	state, err := s.credentialStore.GetOperationalState(ctx, orgID, vendorTypeID)
	if err != nil {
		return OperationalState{}, mapBuildError(s.errorMapper, err)
	}
	return state, nil
}
