package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-vendors/core"
	"github.com/uptrace/bun"
)

// legacyCredentialColumns is the closed set of historically known
// credential fields. Document keys are caller keys: the column names were
// chosen to match, so legacy reconstruction re-derives exactly the key
// names the document shape would have used.
var legacyCredentialColumns = []string{
	"user_name",
	"password",
	"api_key",
	"api_secret",
	"sid",
	"token",
	"ftp_host",
}

// operationalPayloadKeys are routed to their dedicated columns on save and
// overlaid back on load. They never live inside the opaque document.
var operationalPayloadKeys = map[string]struct{}{
	"sync_enabled":      {},
	"last_sync_status":  {},
	"connection_status": {},
}

// CredentialStore is the single dual-shape implementation behind
// core.CredentialStore. Save writes the document and the legacy columns in
// one transaction; Load prefers the document and assembles from the legacy
// columns only for pre-migration rows. Deleting the legacy branch after the
// migration completes will not touch any caller.
type CredentialStore struct {
	db   *bun.DB
	repo repository.Repository[*vendorCredentialRecord]
}

func (s *CredentialStore) Save(ctx context.Context, orgID string, vendorTypeID int64, payload core.CredentialPayload) error {
	if s == nil || s.repo == nil || s.db == nil {
		return fmt.Errorf("sqlstore: credential store is not configured")
	}
	orgID = strings.TrimSpace(orgID)
	if orgID == "" {
		return core.ErrOrganizationRequired
	}
	if vendorTypeID <= 0 {
		return fmt.Errorf("sqlstore: vendor type id is required")
	}

	document, operational := splitOperationalKeys(payload)
	now := time.Now().UTC()

	// Both shapes commit or neither does; a partial dual-write is a
	// correctness hazard during the migration window.
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		existing := &vendorCredentialRecord{}
		err := tx.NewSelect().
			Model(existing).
			Where("?TableAlias.org_id = ?", orgID).
			Where("?TableAlias.vendor_type_id = ?", vendorTypeID).
			Scan(ctx)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return err
		}

		if errors.Is(err, sql.ErrNoRows) {
			record := &vendorCredentialRecord{
				OrgID:        orgID,
				VendorTypeID: vendorTypeID,
				Credentials:  document,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			applyLegacyColumns(record, document)
			applyOperationalValues(record, operational)
			_, createErr := s.repo.CreateTx(ctx, tx, record)
			return createErr
		}

		encoded, encodeErr := json.Marshal(document)
		if encodeErr != nil {
			return fmt.Errorf("sqlstore: encode credential document: %w", encodeErr)
		}
		query := tx.NewUpdate().
			Model((*vendorCredentialRecord)(nil)).
			Set("credentials = ?", string(encoded)).
			Set("updated_at = ?", now).
			Where("org_id = ?", orgID).
			Where("vendor_type_id = ?", vendorTypeID)
		for _, column := range legacyCredentialColumns {
			if value, ok := stringValue(document[column]); ok {
				query = query.Set(column+" = ?", value)
			}
		}
		for key, value := range operational {
			query = query.Set(key+" = ?", value)
		}
		_, updateErr := query.Exec(ctx)
		return updateErr
	})
}

func (s *CredentialStore) Load(ctx context.Context, orgID string, vendorTypeID int64) (core.CredentialPayload, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("sqlstore: credential store is not configured")
	}
	record, err := s.getRecord(ctx, orgID, vendorTypeID)
	if err != nil {
		return nil, err
	}

	payload := core.CredentialPayload{}
	if len(record.Credentials) > 0 {
		for key, value := range record.Credentials {
			payload[key] = value
		}
	} else {
		// Pre-migration row: reconstruct the document from the legacy
		// fixed columns, same key names the document would carry.
		for column, value := range legacyColumnValues(record) {
			payload[column] = value
		}
	}
	overlayOperationalValues(payload, record)

	if len(payload) == 0 {
		// Distinguish "nothing stored" from an empty-but-present
		// document the caller wrote deliberately.
		if record.Credentials != nil {
			return core.CredentialPayload{}, nil
		}
		return nil, fmt.Errorf("%w: org %q vendor type %d", core.ErrCredentialsNotFound, orgID, vendorTypeID)
	}
	return payload, nil
}

func (s *CredentialStore) SetOperationalState(ctx context.Context, orgID string, vendorTypeID int64, state core.OperationalState) error {
	if s == nil || s.repo == nil || s.db == nil {
		return fmt.Errorf("sqlstore: credential store is not configured")
	}
	orgID = strings.TrimSpace(orgID)
	if orgID == "" {
		return core.ErrOrganizationRequired
	}
	now := time.Now().UTC()

	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		existing := &vendorCredentialRecord{}
		err := tx.NewSelect().
			Model(existing).
			Where("?TableAlias.org_id = ?", orgID).
			Where("?TableAlias.vendor_type_id = ?", vendorTypeID).
			Scan(ctx)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return err
		}

		if errors.Is(err, sql.ErrNoRows) {
			enabled := state.SyncEnabled
			record := &vendorCredentialRecord{
				OrgID:            orgID,
				VendorTypeID:     vendorTypeID,
				SyncEnabled:      &enabled,
				LastSyncAt:       cloneTimePointer(state.LastSyncAt),
				LastSyncStatus:   strings.TrimSpace(state.LastSyncStatus),
				ConnectionStatus: strings.TrimSpace(state.ConnectionStatus),
				CreatedAt:        now,
				UpdatedAt:        now,
			}
			_, createErr := s.repo.CreateTx(ctx, tx, record)
			return createErr
		}

		_, updateErr := tx.NewUpdate().
			Model((*vendorCredentialRecord)(nil)).
			Set("sync_enabled = ?", state.SyncEnabled).
			Set("last_sync_at = ?", cloneTimePointer(state.LastSyncAt)).
			Set("last_sync_status = ?", strings.TrimSpace(state.LastSyncStatus)).
			Set("connection_status = ?", strings.TrimSpace(state.ConnectionStatus)).
			Set("updated_at = ?", now).
			Where("org_id = ?", orgID).
			Where("vendor_type_id = ?", vendorTypeID).
			Exec(ctx)
		return updateErr
	})
}

func (s *CredentialStore) GetOperationalState(ctx context.Context, orgID string, vendorTypeID int64) (core.OperationalState, error) {
	if s == nil || s.db == nil {
		return core.OperationalState{}, fmt.Errorf("sqlstore: credential store is not configured")
	}
	record, err := s.getRecord(ctx, orgID, vendorTypeID)
	if err != nil {
		return core.OperationalState{}, err
	}
	return record.operationalState(), nil
}

func (s *CredentialStore) getRecord(ctx context.Context, orgID string, vendorTypeID int64) (*vendorCredentialRecord, error) {
	orgID = strings.TrimSpace(orgID)
	if orgID == "" {
		return nil, core.ErrOrganizationRequired
	}
	record := &vendorCredentialRecord{}
	err := s.db.NewSelect().
		Model(record).
		Where("?TableAlias.org_id = ?", orgID).
		Where("?TableAlias.vendor_type_id = ?", vendorTypeID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: org %q vendor type %d", core.ErrCredentialsNotFound, orgID, vendorTypeID)
	}
	if err != nil {
		return nil, err
	}
	return record, nil
}

func splitOperationalKeys(payload core.CredentialPayload) (map[string]any, map[string]any) {
	document := make(map[string]any, len(payload))
	operational := map[string]any{}
	for key, value := range payload {
		if _, ok := operationalPayloadKeys[key]; ok {
			operational[key] = value
			continue
		}
		document[key] = value
	}
	return document, operational
}

func applyLegacyColumns(record *vendorCredentialRecord, document map[string]any) {
	set := func(target *string, key string) {
		if value, ok := stringValue(document[key]); ok {
			*target = value
		}
	}
	set(&record.UserName, "user_name")
	set(&record.Password, "password")
	set(&record.APIKey, "api_key")
	set(&record.APISecret, "api_secret")
	set(&record.SID, "sid")
	set(&record.Token, "token")
	set(&record.FTPHost, "ftp_host")
}

func applyOperationalValues(record *vendorCredentialRecord, operational map[string]any) {
	if enabled, ok := operational["sync_enabled"].(bool); ok {
		record.SyncEnabled = &enabled
	}
	if status, ok := stringValue(operational["last_sync_status"]); ok {
		record.LastSyncStatus = status
	}
	if status, ok := stringValue(operational["connection_status"]); ok {
		record.ConnectionStatus = status
	}
}

func legacyColumnValues(record *vendorCredentialRecord) map[string]any {
	out := map[string]any{}
	add := func(key, value string) {
		if strings.TrimSpace(value) != "" {
			out[key] = value
		}
	}
	add("user_name", record.UserName)
	add("password", record.Password)
	add("api_key", record.APIKey)
	add("api_secret", record.APISecret)
	add("sid", record.SID)
	add("token", record.Token)
	add("ftp_host", record.FTPHost)
	return out
}

// overlayOperationalValues restores operational keys from their columns. The
// sync flag comes back whenever it was ever recorded, so a stored false
// survives a save/load round trip instead of silently vanishing.
func overlayOperationalValues(payload core.CredentialPayload, record *vendorCredentialRecord) {
	if record.SyncEnabled != nil {
		payload["sync_enabled"] = *record.SyncEnabled
	}
	if strings.TrimSpace(record.LastSyncStatus) != "" {
		payload["last_sync_status"] = record.LastSyncStatus
	}
	if strings.TrimSpace(record.ConnectionStatus) != "" {
		payload["connection_status"] = record.ConnectionStatus
	}
}

func stringValue(value any) (string, bool) {
	typed, ok := value.(string)
	if !ok {
		return "", false
	}
	return typed, true
}

func cloneTimePointer(input *time.Time) *time.Time {
	if input == nil {
		return nil
	}
	value := input.UTC()
	return &value
}
