package statedb

import (
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) *StateDB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := db.Migrate(); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return db
}

func TestMetaRoundTrip(t *testing.T) {
	db := openTestDB(t)

	if err := db.SetMeta("palette_usage_v1", `{"a":{"use_count":1}}`); err != nil {
		t.Fatalf("SetMeta: %v", err)
	}
	got, err := db.GetMeta("palette_usage_v1")
	if err != nil {
		t.Fatalf("GetMeta: %v", err)
	}
	if got != `{"a":{"use_count":1}}` {
		t.Errorf("GetMeta = %q", got)
	}

	// Overwrite replaces.
	if err := db.SetMeta("palette_usage_v1", "{}"); err != nil {
		t.Fatalf("SetMeta overwrite: %v", err)
	}
	got, _ = db.GetMeta("palette_usage_v1")
	if got != "{}" {
		t.Errorf("GetMeta after overwrite = %q", got)
	}
}

func TestGetMetaMissingKey(t *testing.T) {
	db := openTestDB(t)
	got, err := db.GetMeta("nope")
	if err != nil {
		t.Fatalf("GetMeta missing key: %v", err)
	}
	if got != "" {
		t.Errorf("GetMeta missing key = %q, want empty", got)
	}
}

func TestTouchUpdatesLastModified(t *testing.T) {
	db := openTestDB(t)

	before, err := db.LastModified()
	if err != nil {
		t.Fatalf("LastModified: %v", err)
	}
	if before != 0 {
		t.Errorf("fresh db LastModified = %d, want 0", before)
	}

	if err := db.Touch(); err != nil {
		t.Fatalf("Touch: %v", err)
	}
	after, err := db.LastModified()
	if err != nil {
		t.Fatalf("LastModified after touch: %v", err)
	}
	if after <= before {
		t.Errorf("LastModified did not advance: %d -> %d", before, after)
	}
}

func TestMigrateIdempotent(t *testing.T) {
	db := openTestDB(t)
	if err := db.Migrate(); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}
}
