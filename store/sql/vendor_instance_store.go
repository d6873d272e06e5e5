package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-vendors/core"
	"github.com/uptrace/bun"
)

type VendorInstanceStore struct {
	db   *bun.DB
	repo repository.Repository[*vendorInstanceRecord]
}

// CreateIfAbsent performs the eligibility check and insert as one atomic
// step. The unique (org_id, vendor_type_id, instance_slug) index covers
// soft-deleted rows too: instance slugs are never reused, matching the
// permanent-uniqueness rule for vendor slugs.
func (s *VendorInstanceStore) CreateIfAbsent(ctx context.Context, in core.CreateInstanceInput) (core.VendorInstance, bool, error) {
	if s == nil || s.repo == nil || s.db == nil {
		return core.VendorInstance{}, false, fmt.Errorf("sqlstore: vendor instance store is not configured")
	}
	if err := in.Validate(); err != nil {
		return core.VendorInstance{}, false, err
	}
	status := in.Status
	if strings.TrimSpace(string(status)) == "" {
		status = core.InstanceStatusActive
	}
	in.Status = status

	var (
		instance core.VendorInstance
		created  bool
	)
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		existing := &vendorInstanceRecord{}
		err := tx.NewSelect().
			Model(existing).
			WhereAllWithDeleted().
			Where("?TableAlias.org_id = ?", in.OrgID).
			Where("?TableAlias.vendor_type_id = ?", in.VendorTypeID).
			Where("?TableAlias.instance_slug = ?", in.InstanceSlug).
			Scan(ctx)
		if err == nil {
			instance = existing.toDomain()
			created = false
			return nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return err
		}

		record := newVendorInstanceRecord(in, time.Now().UTC())
		inserted, createErr := s.repo.CreateTx(ctx, tx, record)
		if createErr != nil {
			return createErr
		}
		instance = inserted.toDomain()
		created = true
		return nil
	})
	if err != nil {
		return core.VendorInstance{}, false, err
	}
	return instance, created, nil
}

func (s *VendorInstanceStore) Get(ctx context.Context, id string) (core.VendorInstance, error) {
	if s == nil || s.repo == nil {
		return core.VendorInstance{}, fmt.Errorf("sqlstore: vendor instance store is not configured")
	}
	record, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if errors.Is(err, sql.ErrNoRows) {
		return core.VendorInstance{}, fmt.Errorf("%w: id %q", core.ErrVendorInstanceNotFound, id)
	}
	if err != nil {
		return core.VendorInstance{}, err
	}
	return record.toDomain(), nil
}

func (s *VendorInstanceStore) ListByOrg(ctx context.Context, orgID string) ([]core.VendorInstance, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("sqlstore: vendor instance store is not configured")
	}
	orgID = strings.TrimSpace(orgID)
	if orgID == "" {
		return nil, core.ErrOrganizationRequired
	}
	records, _, err := s.repo.List(ctx,
		repository.SelectBy("org_id", "=", orgID),
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.deleted_at IS NULL")
		}),
		repository.OrderBy("created_at ASC"),
	)
	if err != nil {
		return nil, err
	}
	instances := make([]core.VendorInstance, 0, len(records))
	for _, record := range records {
		instances = append(instances, record.toDomain())
	}
	return instances, nil
}

// CountByOrgAndType counts every row including disconnected ones, so slug
// disambiguators keep advancing instead of colliding with retired slugs.
func (s *VendorInstanceStore) CountByOrgAndType(ctx context.Context, orgID string, vendorTypeID int64) (int, error) {
	if s == nil || s.db == nil {
		return 0, fmt.Errorf("sqlstore: vendor instance store is not configured")
	}
	count, err := s.db.NewSelect().
		Model((*vendorInstanceRecord)(nil)).
		WhereAllWithDeleted().
		Where("?TableAlias.org_id = ?", strings.TrimSpace(orgID)).
		Where("?TableAlias.vendor_type_id = ?", vendorTypeID).
		Count(ctx)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (s *VendorInstanceStore) UpdateShortCode(ctx context.Context, id string, shortCode string) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("sqlstore: vendor instance store is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("sqlstore: vendor instance id is required")
	}
	result, err := s.db.NewUpdate().
		Model((*vendorInstanceRecord)(nil)).
		Set("short_code = ?", strings.TrimSpace(shortCode)).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", id).
		Where("deleted_at IS NULL").
		Exec(ctx)
	if err != nil {
		return err
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return fmt.Errorf("%w: id %q", core.ErrVendorInstanceNotFound, id)
	}
	return nil
}

// Disconnect soft-removes the binding. Historical order and shipment rows
// referencing the instance survive.
func (s *VendorInstanceStore) Disconnect(ctx context.Context, id string) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("sqlstore: vendor instance store is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("sqlstore: vendor instance id is required")
	}
	now := time.Now().UTC()
	result, err := s.db.NewUpdate().
		Model((*vendorInstanceRecord)(nil)).
		Set("status = ?", string(core.InstanceStatusDisconnected)).
		Set("updated_at = ?", now).
		Set("deleted_at = ?", now).
		Where("id = ?", id).
		Where("deleted_at IS NULL").
		Exec(ctx)
	if err != nil {
		return err
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return fmt.Errorf("%w: id %q", core.ErrVendorInstanceNotFound, id)
	}
	return nil
}
