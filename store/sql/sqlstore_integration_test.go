package sqlstore_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"testing"
	"time"

	persistence "github.com/goliatone/go-persistence-bun"
	"github.com/goliatone/go-vendors/core"
	vendormigrations "github.com/goliatone/go-vendors/migrations"
	sqlstore "github.com/goliatone/go-vendors/store/sql"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

type testPersistenceConfig struct {
	driver string
	server string
}

func (c testPersistenceConfig) GetDebug() bool {
	return false
}

func (c testPersistenceConfig) GetDriver() string {
	return c.driver
}

func (c testPersistenceConfig) GetServer() string {
	return c.server
}

func (c testPersistenceConfig) GetPingTimeout() time.Duration {
	return time.Second
}

func (c testPersistenceConfig) GetOtelIdentifier() string {
	return "go-vendors-tests"
}

func TestMigrationSmokeApplySQLite(t *testing.T) {
	client, cleanup := newSQLiteClient(t)
	defer cleanup()

	for _, table := range []string{"vendor_types", "vendor_instances", "vendor_credentials", "retail_verticals"} {
		var tableName string
		if err := client.DB().NewRaw(
			"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?",
			table,
		).Scan(context.Background(), &tableName); err != nil {
			t.Fatalf("query sqlite master for %s: %v", table, err)
		}
		if tableName != table {
			t.Fatalf("expected %s table, got %q", table, tableName)
		}
	}
}

func TestVendorTypeStore_CatalogLifecycle(t *testing.T) {
	ctx := context.Background()
	client, cleanup := newSQLiteClient(t)
	defer cleanup()

	factory, err := sqlstore.NewRepositoryFactoryFromPersistence(client)
	if err != nil {
		t.Fatalf("new repository factory: %v", err)
	}
	store := factory.VendorTypeStore()

	created, err := store.Create(ctx, core.CreateVendorTypeInput{
		Name:              "Lipsey's",
		Slug:              "lipseys",
		ShortCode:         "LIP",
		RetailVerticalIDs: []int64{1, 2},
		Enabled:           true,
	})
	if err != nil {
		t.Fatalf("create vendor type: %v", err)
	}
	if created.ID == 0 {
		t.Fatalf("expected assigned vendor type id")
	}

	if _, err := store.Create(ctx, core.CreateVendorTypeInput{
		Name:    "Lipsey's Duplicate",
		Slug:    "lipseys",
		Enabled: true,
	}); err == nil {
		t.Fatalf("expected unique slug constraint violation")
	}

	bySlug, err := store.GetBySlug(ctx, "lipseys")
	if err != nil {
		t.Fatalf("get by slug: %v", err)
	}
	if bySlug.ID != created.ID || bySlug.ShortCode != "LIP" {
		t.Fatalf("unexpected slug lookup result: %#v", bySlug)
	}
	if len(bySlug.RetailVerticalIDs) != 2 {
		t.Fatalf("expected 2 vertical links, got %v", bySlug.RetailVerticalIDs)
	}

	disabled, err := store.Create(ctx, core.CreateVendorTypeInput{
		Name:    "Dormant Distributor",
		Slug:    "dormant-distributor",
		Enabled: false,
	})
	if err != nil {
		t.Fatalf("create disabled vendor type: %v", err)
	}

	enabled, err := store.ListEnabled(ctx)
	if err != nil {
		t.Fatalf("list enabled: %v", err)
	}
	if len(enabled) != 1 || enabled[0].ID != created.ID {
		t.Fatalf("expected only the enabled type, got %#v", enabled)
	}

	updated, err := store.UpdateFields(ctx, created.ID, map[string]any{
		"name":        "Lipsey's Inc.",
		"short_code":  "LIPS",
		"unknown_key": "ignored",
	})
	if err != nil {
		t.Fatalf("update fields: %v", err)
	}
	if updated.Name != "Lipsey's Inc." || updated.ShortCode != "LIPS" {
		t.Fatalf("unexpected updated vendor type: %#v", updated)
	}
	if updated.Slug != "lipseys" {
		t.Fatalf("slug must not change on update, got %q", updated.Slug)
	}

	reEnabled, err := store.UpdateFields(ctx, disabled.ID, map[string]any{"enabled": true})
	if err != nil {
		t.Fatalf("re-enable vendor type: %v", err)
	}
	if !reEnabled.Enabled {
		t.Fatalf("expected vendor type to be enabled")
	}

	if _, err := store.Get(ctx, 9999); !errors.Is(err, core.ErrVendorTypeNotFound) {
		t.Fatalf("expected vendor type not found, got %v", err)
	}
}

func TestVendorInstanceStore_ProvisioningAndSlugHistory(t *testing.T) {
	ctx := context.Background()
	client, cleanup := newSQLiteClient(t)
	defer cleanup()

	factory, err := sqlstore.NewRepositoryFactoryFromPersistence(client)
	if err != nil {
		t.Fatalf("new repository factory: %v", err)
	}
	store := factory.VendorInstanceStore()

	first, created, err := store.CreateIfAbsent(ctx, core.CreateInstanceInput{
		OrgID:        "org_1",
		VendorTypeID: 1,
		VendorSlug:   "lipseys",
		InstanceSlug: "lipseys",
		ShortCode:    "LIP",
	})
	if err != nil {
		t.Fatalf("create instance: %v", err)
	}
	if !created {
		t.Fatalf("expected first provision to create an instance")
	}
	if first.Status != core.InstanceStatusActive {
		t.Fatalf("expected active status default, got %q", first.Status)
	}

	_, createdAgain, err := store.CreateIfAbsent(ctx, core.CreateInstanceInput{
		OrgID:        "org_1",
		VendorTypeID: 1,
		VendorSlug:   "lipseys",
		InstanceSlug: "lipseys",
	})
	if err != nil {
		t.Fatalf("repeat provision: %v", err)
	}
	if createdAgain {
		t.Fatalf("expected repeat provision to be a no-op")
	}

	count, err := store.CountByOrgAndType(ctx, "org_1", 1)
	if err != nil {
		t.Fatalf("count instances: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected count=1 after idempotent provision, got %d", count)
	}

	if err := store.Disconnect(ctx, first.ID); err != nil {
		t.Fatalf("disconnect instance: %v", err)
	}

	listed, err := store.ListByOrg(ctx, "org_1")
	if err != nil {
		t.Fatalf("list by org: %v", err)
	}
	if len(listed) != 0 {
		t.Fatalf("expected disconnected instance to be hidden from listing, got %#v", listed)
	}

	// Disconnected rows keep occupying their slug, so the disambiguator
	// keeps advancing instead of reusing it.
	count, err = store.CountByOrgAndType(ctx, "org_1", 1)
	if err != nil {
		t.Fatalf("count after disconnect: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected disconnected instance to still count, got %d", count)
	}

	second, created, err := store.CreateIfAbsent(ctx, core.CreateInstanceInput{
		OrgID:        "org_1",
		VendorTypeID: 1,
		VendorSlug:   "lipseys",
		InstanceSlug: "lipseys-2",
	})
	if err != nil {
		t.Fatalf("reprovision instance: %v", err)
	}
	if !created || second.InstanceSlug != "lipseys-2" {
		t.Fatalf("expected fresh instance with advanced slug, got created=%v %#v", created, second)
	}

	if err := store.UpdateShortCode(ctx, second.ID, "LIP2"); err != nil {
		t.Fatalf("update short code: %v", err)
	}
	refreshed, err := store.Get(ctx, second.ID)
	if err != nil {
		t.Fatalf("get instance: %v", err)
	}
	if refreshed.ShortCode != "LIP2" {
		t.Fatalf("expected updated short code, got %q", refreshed.ShortCode)
	}

	if err := store.UpdateShortCode(ctx, first.ID, "GONE"); !errors.Is(err, core.ErrVendorInstanceNotFound) {
		t.Fatalf("expected not found updating disconnected instance, got %v", err)
	}
}

func TestCredentialStore_DualWriteRoundTrip(t *testing.T) {
	ctx := context.Background()
	client, cleanup := newSQLiteClient(t)
	defer cleanup()

	factory, err := sqlstore.NewRepositoryFactoryFromPersistence(client)
	if err != nil {
		t.Fatalf("new repository factory: %v", err)
	}
	store := factory.CredentialStore()

	payload := core.CredentialPayload{
		"user_name":    "dealer-account",
		"password":     "hunter2",
		"ftp_host":     "ftp.lipseys.example",
		"custom_field": "portal-7",
	}
	if err := store.Save(ctx, "org_1", 1, payload); err != nil {
		t.Fatalf("save credentials: %v", err)
	}

	loaded, err := store.Load(ctx, "org_1", 1)
	if err != nil {
		t.Fatalf("load credentials: %v", err)
	}
	if len(loaded) != len(payload) {
		t.Fatalf("expected %d keys, got %#v", len(payload), loaded)
	}
	for key, want := range payload {
		if loaded[key] != want {
			t.Fatalf("expected %s=%q, got %#v", key, want, loaded[key])
		}
	}

	// The legacy columns carry the same values as the document shape.
	var legacyUser, legacyFTP string
	if err := client.DB().NewRaw(
		"SELECT user_name, ftp_host FROM vendor_credentials WHERE org_id = ? AND vendor_type_id = ?",
		"org_1", 1,
	).Scan(ctx, &legacyUser, &legacyFTP); err != nil {
		t.Fatalf("inspect legacy columns: %v", err)
	}
	if legacyUser != "dealer-account" || legacyFTP != "ftp.lipseys.example" {
		t.Fatalf("expected legacy columns mirrored, got %q %q", legacyUser, legacyFTP)
	}

	// Saving again replaces the document for the same org and vendor type.
	if err := store.Save(ctx, "org_1", 1, core.CredentialPayload{
		"user_name": "dealer-account",
		"password":  "rotated",
	}); err != nil {
		t.Fatalf("resave credentials: %v", err)
	}
	reloaded, err := store.Load(ctx, "org_1", 1)
	if err != nil {
		t.Fatalf("reload credentials: %v", err)
	}
	if reloaded["password"] != "rotated" {
		t.Fatalf("expected rotated password, got %#v", reloaded["password"])
	}
	if _, ok := reloaded["custom_field"]; ok {
		t.Fatalf("expected replaced document to drop stale keys, got %#v", reloaded)
	}

	var rowCount int
	if err := client.DB().NewRaw(
		"SELECT COUNT(*) FROM vendor_credentials WHERE org_id = ? AND vendor_type_id = ?",
		"org_1", 1,
	).Scan(ctx, &rowCount); err != nil {
		t.Fatalf("count credential rows: %v", err)
	}
	if rowCount != 1 {
		t.Fatalf("expected exactly 1 credential row per org and vendor type, got %d", rowCount)
	}
}

func TestCredentialStore_LegacyRowReconstruction(t *testing.T) {
	ctx := context.Background()
	client, cleanup := newSQLiteClient(t)
	defer cleanup()

	// A pre-migration row has only the fixed columns populated; the
	// credentials document is NULL.
	if _, err := client.DB().NewRaw(
		"INSERT INTO vendor_credentials (id, org_id, vendor_type_id, user_name, password, sid) VALUES (?, ?, ?, ?, ?, ?)",
		"11111111-1111-1111-1111-111111111111", "org_legacy", 2, "old-account", "old-secret", "SID-9",
	).Exec(ctx); err != nil {
		t.Fatalf("seed legacy row: %v", err)
	}

	factory, err := sqlstore.NewRepositoryFactoryFromPersistence(client)
	if err != nil {
		t.Fatalf("new repository factory: %v", err)
	}

	loaded, err := factory.CredentialStore().Load(ctx, "org_legacy", 2)
	if err != nil {
		t.Fatalf("load legacy credentials: %v", err)
	}
	if loaded["user_name"] != "old-account" || loaded["password"] != "old-secret" || loaded["sid"] != "SID-9" {
		t.Fatalf("expected legacy columns reconstructed as document keys, got %#v", loaded)
	}
	if len(loaded) != 3 {
		t.Fatalf("expected exactly the populated legacy keys, got %#v", loaded)
	}
}

func TestCredentialStore_OperationalStateSplitAndOverlay(t *testing.T) {
	ctx := context.Background()
	client, cleanup := newSQLiteClient(t)
	defer cleanup()

	factory, err := sqlstore.NewRepositoryFactoryFromPersistence(client)
	if err != nil {
		t.Fatalf("new repository factory: %v", err)
	}
	store := factory.CredentialStore()

	if err := store.Save(ctx, "org_ops", 3, core.CredentialPayload{
		"api_key":           "k-123",
		"sync_enabled":      true,
		"connection_status": "connected",
	}); err != nil {
		t.Fatalf("save with operational keys: %v", err)
	}

	// Operational keys land in their dedicated columns, not the document.
	var syncEnabled bool
	var document sql.NullString
	if err := client.DB().NewRaw(
		"SELECT sync_enabled, credentials FROM vendor_credentials WHERE org_id = ? AND vendor_type_id = ?",
		"org_ops", 3,
	).Scan(ctx, &syncEnabled, &document); err != nil {
		t.Fatalf("inspect operational columns: %v", err)
	}
	if !syncEnabled {
		t.Fatalf("expected sync_enabled column set")
	}
	if document.Valid && strings.Contains(document.String, "sync_enabled") {
		t.Fatalf("operational key leaked into document: %s", document.String)
	}

	loaded, err := store.Load(ctx, "org_ops", 3)
	if err != nil {
		t.Fatalf("load with overlay: %v", err)
	}
	if loaded["api_key"] != "k-123" || loaded["sync_enabled"] != true || loaded["connection_status"] != "connected" {
		t.Fatalf("expected operational overlay on load, got %#v", loaded)
	}

	lastSync := time.Date(2026, 4, 2, 8, 30, 0, 0, time.UTC)
	if err := store.SetOperationalState(ctx, "org_ops", 3, core.OperationalState{
		SyncEnabled:      true,
		LastSyncAt:       &lastSync,
		LastSyncStatus:   "success",
		ConnectionStatus: "connected",
	}); err != nil {
		t.Fatalf("set operational state: %v", err)
	}

	state, err := store.GetOperationalState(ctx, "org_ops", 3)
	if err != nil {
		t.Fatalf("get operational state: %v", err)
	}
	if !state.SyncEnabled || state.LastSyncStatus != "success" || state.ConnectionStatus != "connected" {
		t.Fatalf("unexpected operational state: %#v", state)
	}
	if state.LastSyncAt == nil || !state.LastSyncAt.Equal(lastSync) {
		t.Fatalf("expected last sync timestamp preserved, got %v", state.LastSyncAt)
	}
}

func TestCredentialStore_DisabledSyncFlagSurvivesRoundTrip(t *testing.T) {
	ctx := context.Background()
	client, cleanup := newSQLiteClient(t)
	defer cleanup()

	factory, err := sqlstore.NewRepositoryFactoryFromPersistence(client)
	if err != nil {
		t.Fatalf("new repository factory: %v", err)
	}
	store := factory.CredentialStore()

	if err := store.Save(ctx, "org_flag", 5, core.CredentialPayload{
		"api_key":      "k-456",
		"sync_enabled": false,
	}); err != nil {
		t.Fatalf("save with disabled sync flag: %v", err)
	}

	loaded, err := store.Load(ctx, "org_flag", 5)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("expected both supplied keys back, got %#v", loaded)
	}
	if loaded["sync_enabled"] != false {
		t.Fatalf("expected explicit false to survive the round trip, got %#v", loaded["sync_enabled"])
	}

	// A payload that never carried the flag must not grow one on load.
	if err := store.Save(ctx, "org_noflag", 5, core.CredentialPayload{
		"api_key": "k-789",
	}); err != nil {
		t.Fatalf("save without sync flag: %v", err)
	}
	loaded, err = store.Load(ctx, "org_noflag", 5)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, present := loaded["sync_enabled"]; present {
		t.Fatalf("unrecorded sync flag should stay absent, got %#v", loaded)
	}
}

func TestCredentialStore_SetOperationalStateCreatesRow(t *testing.T) {
	ctx := context.Background()
	client, cleanup := newSQLiteClient(t)
	defer cleanup()

	factory, err := sqlstore.NewRepositoryFactoryFromPersistence(client)
	if err != nil {
		t.Fatalf("new repository factory: %v", err)
	}
	store := factory.CredentialStore()

	if err := store.SetOperationalState(ctx, "org_fresh", 4, core.OperationalState{
		SyncEnabled:      false,
		ConnectionStatus: "pending",
	}); err != nil {
		t.Fatalf("set operational state on missing row: %v", err)
	}

	state, err := store.GetOperationalState(ctx, "org_fresh", 4)
	if err != nil {
		t.Fatalf("get operational state: %v", err)
	}
	if state.SyncEnabled || state.ConnectionStatus != "pending" {
		t.Fatalf("unexpected state for fresh row: %#v", state)
	}
}

func TestCredentialStore_NotFound(t *testing.T) {
	ctx := context.Background()
	client, cleanup := newSQLiteClient(t)
	defer cleanup()

	factory, err := sqlstore.NewRepositoryFactoryFromPersistence(client)
	if err != nil {
		t.Fatalf("new repository factory: %v", err)
	}

	if _, err := factory.CredentialStore().Load(ctx, "org_missing", 99); !errors.Is(err, core.ErrCredentialsNotFound) {
		t.Fatalf("expected credentials not found, got %v", err)
	}
	if _, err := factory.CredentialStore().GetOperationalState(ctx, "org_missing", 99); !errors.Is(err, core.ErrCredentialsNotFound) {
		t.Fatalf("expected credentials not found for state, got %v", err)
	}
}

func newSQLiteClient(t *testing.T) (*persistence.Client, func()) {
	t.Helper()

	dsn := fmt.Sprintf(
		"file:vendors-test-%d?mode=memory&cache=shared&_foreign_keys=on",
		time.Now().UnixNano(),
	)
	sqlDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		t.Fatalf("open sqlite db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	cfg := testPersistenceConfig{
		driver: "sqlite3",
		server: dsn,
	}
	client, err := persistence.New(cfg, sqlDB, sqlitedialect.New())
	if err != nil {
		_ = sqlDB.Close()
		t.Fatalf("new persistence client: %v", err)
	}

	ctx := context.Background()
	_, err = vendormigrations.Register(ctx, func(_ context.Context, dialect string, _ string, fsys fs.FS) error {
		if dialect != vendormigrations.DialectSQLite {
			return nil
		}
		client.RegisterSQLMigrations(fsys)
		return nil
	}, vendormigrations.WithValidationTargets(vendormigrations.DialectSQLite))
	if err != nil {
		_ = client.Close()
		t.Fatalf("register migrations: %v", err)
	}
	if err := client.Migrate(ctx); err != nil {
		_ = client.Close()
		t.Fatalf("migrate: %v", err)
	}

	return client, func() {
		_ = client.Close()
	}
}
