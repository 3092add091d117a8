package db_test

import (
	"context"
	"testing"

	dbfs "github.com/rialo-labs/builders-arena/db"
	"github.com/rialo-labs/builders-arena/internal/db"
)

// Note: this test uses an in-memory sqlite database to validate idempotent
// behavior of Migrate.
func TestMigrate_Idempotent(t *testing.T) {
	ctx := context.Background()

	d, err := db.New(ctx, ":memory:")
	if err != nil {
		t.Fatalf("failed to open in-memory db: %v", err)
	}
	defer d.Close()

	if err := db.Migrate(ctx, d, dbfs.Migrations); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	// Run again to ensure idempotency
	if err := db.Migrate(ctx, d, dbfs.Migrations); err != nil {
		t.Fatalf("second migrate failed: %v", err)
	}

	// verify schema_migrations has at least one entry
	var count int
	row := d.QueryRow(ctx, `SELECT COUNT(1) FROM schema_migrations`)
	if err := row.Scan(&count); err != nil {
		t.Fatalf("scan schema_migrations count: %v", err)
	}
	if count < 1 {
		t.Fatalf("expected at least 1 migration recorded, got %d", count)
	}

	// verify a known table from the embedded migrations exists
	for _, table := range []string{"events", "participants", "votes", "builder_profiles", "site_settings"} {
		var name string
		r := d.QueryRow(ctx, `SELECT name FROM sqlite_master WHERE type='table' AND name = ?`, table)
		if err := r.Scan(&name); err != nil {
			t.Fatalf("expected %s table to exist: %v", table, err)
		}
	}

	// the settings seed row is present
	var n int
	r := d.QueryRow(ctx, `SELECT COUNT(1) FROM site_settings WHERE id = 1`)
	if err := r.Scan(&n); err != nil {
		t.Fatalf("scan site_settings count: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected seeded settings row, got %d", n)
	}
}
