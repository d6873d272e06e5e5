package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-vendors/core"
	"github.com/uptrace/bun"
)

// VendorTypeStore persists the catalog. Vendor types use numeric keys and a
// join table for retail verticals, so this store talks to bun directly
// instead of going through the uuid-keyed generic repositories.
type VendorTypeStore struct {
	db *bun.DB
}

func (s *VendorTypeStore) Create(ctx context.Context, in core.CreateVendorTypeInput) (core.VendorType, error) {
	if s == nil || s.db == nil {
		return core.VendorType{}, fmt.Errorf("sqlstore: vendor type store is not configured")
	}
	if err := in.Validate(); err != nil {
		return core.VendorType{}, err
	}
	slug := strings.TrimSpace(in.Slug)
	if slug == "" {
		return core.VendorType{}, fmt.Errorf("sqlstore: vendor slug is required")
	}

	now := time.Now().UTC()
	record := &vendorTypeRecord{
		Name:             strings.TrimSpace(in.Name),
		Slug:             slug,
		ShortCode:        strings.TrimSpace(in.ShortCode),
		Enabled:          in.Enabled,
		CredentialSchema: in.CredentialSchema,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(record).Exec(ctx); err != nil {
			return err
		}
		return replaceVerticalLinks(ctx, tx, record.ID, in.RetailVerticalIDs)
	})
	if err != nil {
		return core.VendorType{}, err
	}
	return record.toDomain(in.RetailVerticalIDs), nil
}

func (s *VendorTypeStore) Get(ctx context.Context, id int64) (core.VendorType, error) {
	if s == nil || s.db == nil {
		return core.VendorType{}, fmt.Errorf("sqlstore: vendor type store is not configured")
	}
	record := &vendorTypeRecord{}
	err := s.db.NewSelect().Model(record).Where("?TableAlias.id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return core.VendorType{}, fmt.Errorf("%w: id %d", core.ErrVendorTypeNotFound, id)
	}
	if err != nil {
		return core.VendorType{}, err
	}
	verticals, err := s.verticalIDs(ctx, record.ID)
	if err != nil {
		return core.VendorType{}, err
	}
	return record.toDomain(verticals), nil
}

func (s *VendorTypeStore) GetBySlug(ctx context.Context, slug string) (core.VendorType, error) {
	if s == nil || s.db == nil {
		return core.VendorType{}, fmt.Errorf("sqlstore: vendor type store is not configured")
	}
	slug = strings.TrimSpace(slug)
	record := &vendorTypeRecord{}
	err := s.db.NewSelect().Model(record).Where("?TableAlias.slug = ?", slug).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return core.VendorType{}, fmt.Errorf("%w: slug %q", core.ErrVendorTypeNotFound, slug)
	}
	if err != nil {
		return core.VendorType{}, err
	}
	verticals, err := s.verticalIDs(ctx, record.ID)
	if err != nil {
		return core.VendorType{}, err
	}
	return record.toDomain(verticals), nil
}

func (s *VendorTypeStore) ListEnabled(ctx context.Context) ([]core.VendorType, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("sqlstore: vendor type store is not configured")
	}
	records := []*vendorTypeRecord{}
	if err := s.db.NewSelect().
		Model(&records).
		Where("?TableAlias.enabled = ?", true).
		Order("id ASC").
		Scan(ctx); err != nil {
		return nil, err
	}

	verticalsByType, err := s.verticalIDsForAll(ctx)
	if err != nil {
		return nil, err
	}

	types := make([]core.VendorType, 0, len(records))
	for _, record := range records {
		types = append(types, record.toDomain(verticalsByType[record.ID]))
	}
	return types, nil
}

// UpdateFields applies a sanitized patch. The immutability guard has
// already stripped the slug; anything else unrecognized is skipped so a
// widened admin form cannot corrupt the row.
func (s *VendorTypeStore) UpdateFields(ctx context.Context, id int64, fields map[string]any) (core.VendorType, error) {
	if s == nil || s.db == nil {
		return core.VendorType{}, fmt.Errorf("sqlstore: vendor type store is not configured")
	}
	if id <= 0 {
		return core.VendorType{}, fmt.Errorf("sqlstore: vendor type id is required")
	}

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		query := tx.NewUpdate().
			Model((*vendorTypeRecord)(nil)).
			Set("updated_at = ?", time.Now().UTC()).
			Where("id = ?", id)

		touched := false
		for key, value := range fields {
			switch key {
			case "name":
				query = query.Set("name = ?", fmt.Sprint(value))
				touched = true
			case "short_code", "vendor_short_code":
				query = query.Set("short_code = ?", fmt.Sprint(value))
				touched = true
			case "enabled", "is_enabled":
				enabled, ok := value.(bool)
				if !ok {
					return fmt.Errorf("sqlstore: enabled must be a bool")
				}
				query = query.Set("enabled = ?", enabled)
				touched = true
			case "retail_vertical_ids":
				ids, ok := toInt64Slice(value)
				if !ok {
					return fmt.Errorf("sqlstore: retail_vertical_ids must be a list of ids")
				}
				if err := replaceVerticalLinks(ctx, tx, id, ids); err != nil {
					return err
				}
				touched = true
			case "credential_schema":
				schema, ok := value.(core.CredentialSchema)
				if !ok {
					return fmt.Errorf("sqlstore: credential_schema has unexpected type %T", value)
				}
				encoded, encodeErr := json.Marshal(schema)
				if encodeErr != nil {
					return fmt.Errorf("sqlstore: encode credential schema: %w", encodeErr)
				}
				query = query.Set("credential_schema = ?", string(encoded))
				touched = true
			}
		}
		if !touched {
			return nil
		}

		result, execErr := query.Exec(ctx)
		if execErr != nil {
			return execErr
		}
		affected, _ := result.RowsAffected()
		if affected == 0 {
			return fmt.Errorf("%w: id %d", core.ErrVendorTypeNotFound, id)
		}
		return nil
	})
	if err != nil {
		return core.VendorType{}, err
	}
	return s.Get(ctx, id)
}

func (s *VendorTypeStore) verticalIDs(ctx context.Context, vendorTypeID int64) ([]int64, error) {
	ids := []int64{}
	if err := s.db.NewSelect().
		Model((*vendorTypeVerticalRecord)(nil)).
		Column("retail_vertical_id").
		Where("?TableAlias.vendor_type_id = ?", vendorTypeID).
		Order("retail_vertical_id ASC").
		Scan(ctx, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *VendorTypeStore) verticalIDsForAll(ctx context.Context) (map[int64][]int64, error) {
	links := []*vendorTypeVerticalRecord{}
	if err := s.db.NewSelect().
		Model(&links).
		Order("vendor_type_id ASC", "retail_vertical_id ASC").
		Scan(ctx); err != nil {
		return nil, err
	}
	out := map[int64][]int64{}
	for _, link := range links {
		out[link.VendorTypeID] = append(out[link.VendorTypeID], link.RetailVerticalID)
	}
	return out, nil
}

func replaceVerticalLinks(ctx context.Context, tx bun.Tx, vendorTypeID int64, verticalIDs []int64) error {
	if _, err := tx.NewDelete().
		Model((*vendorTypeVerticalRecord)(nil)).
		Where("vendor_type_id = ?", vendorTypeID).
		Exec(ctx); err != nil {
		return err
	}
	if len(verticalIDs) == 0 {
		return nil
	}
	links := make([]*vendorTypeVerticalRecord, 0, len(verticalIDs))
	for _, verticalID := range verticalIDs {
		links = append(links, &vendorTypeVerticalRecord{
			VendorTypeID:     vendorTypeID,
			RetailVerticalID: verticalID,
		})
	}
	_, err := tx.NewInsert().Model(&links).Exec(ctx)
	return err
}

func toInt64Slice(value any) ([]int64, bool) {
	switch typed := value.(type) {
	case []int64:
		return append([]int64(nil), typed...), true
	case []int:
		out := make([]int64, 0, len(typed))
		for _, v := range typed {
			out = append(out, int64(v))
		}
		return out, true
	case []any:
		out := make([]int64, 0, len(typed))
		for _, v := range typed {
			switch n := v.(type) {
			case int64:
				out = append(out, n)
			case int:
				out = append(out, int64(n))
			case float64:
				out = append(out, int64(n))
			default:
				return nil, false
			}
		}
		return out, true
	default:
		return nil, false
	}
}
