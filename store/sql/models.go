package sqlstore

import (
	"time"

	"github.com/goliatone/go-vendors/core"
	"github.com/uptrace/bun"
)

type vendorTypeRecord struct {
	bun.BaseModel `bun:"table:vendor_types,alias:vt"`

	ID               int64                 `bun:"id,pk,autoincrement"`
	Name             string                `bun:"name,notnull"`
	Slug             string                `bun:"slug,notnull"`
	ShortCode        string                `bun:"short_code"`
	Enabled          bool                  `bun:"enabled,notnull"`
	CredentialSchema core.CredentialSchema `bun:"credential_schema,type:jsonb"`
	CreatedAt        time.Time             `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt        time.Time             `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

type retailVerticalRecord struct {
	bun.BaseModel `bun:"table:retail_verticals,alias:rv"`

	ID        int64     `bun:"id,pk,autoincrement"`
	Name      string    `bun:"name,notnull"`
	Slug      string    `bun:"slug,notnull"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

type vendorTypeVerticalRecord struct {
	bun.BaseModel `bun:"table:vendor_type_verticals,alias:vtv"`

	VendorTypeID     int64 `bun:"vendor_type_id,pk"`
	RetailVerticalID int64 `bun:"retail_vertical_id,pk"`
}

type vendorInstanceRecord struct {
	bun.BaseModel `bun:"table:vendor_instances,alias:vi"`

	ID           string     `bun:"id,pk"`
	OrgID        string     `bun:"org_id,notnull"`
	VendorTypeID int64      `bun:"vendor_type_id,notnull"`
	VendorSlug   string     `bun:"vendor_slug,notnull"`
	InstanceSlug string     `bun:"instance_slug,notnull"`
	ShortCode    string     `bun:"short_code"`
	Status       string     `bun:"status,notnull"`
	CreatedAt    time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt    time.Time  `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
	DeletedAt    *time.Time `bun:"deleted_at,soft_delete"`
}

// vendorCredentialRecord backs both storage shapes plus the operational
// columns. The credentials jsonb column is the schema-on-read document; the
// fixed columns are the legacy shape kept alive for dual-read until the
// migration completes.
type vendorCredentialRecord struct {
	bun.BaseModel `bun:"table:vendor_credentials,alias:vc"`

	ID           string         `bun:"id,pk"`
	OrgID        string         `bun:"org_id,notnull"`
	VendorTypeID int64          `bun:"vendor_type_id,notnull"`
	Credentials  map[string]any `bun:"credentials,type:jsonb"`

	// Legacy shape. One column per historically known credential field.
	UserName  string `bun:"user_name"`
	Password  string `bun:"password"`
	APIKey    string `bun:"api_key"`
	APISecret string `bun:"api_secret"`
	SID       string `bun:"sid"`
	Token     string `bun:"token"`
	FTPHost   string `bun:"ftp_host"`

	// Operational state. Never inside the document so fleet-wide scans
	// stay plain relational queries. SyncEnabled is nullable: NULL means the
	// flag was never recorded, which keeps an explicit false distinguishable
	// from absent on load.
	SyncEnabled      *bool      `bun:"sync_enabled"`
	LastSyncAt       *time.Time `bun:"last_sync_at,nullzero"`
	LastSyncStatus   string     `bun:"last_sync_status"`
	ConnectionStatus string     `bun:"connection_status"`

	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}
