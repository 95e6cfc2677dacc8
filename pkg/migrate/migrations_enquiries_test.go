package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCoreMigrationEnforcesEnquiryUniqueness(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_core_tables.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no core migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration: %v", err)
	}

	sql := string(data)
	if !strings.Contains(sql, "enquiries_party_category_active_key") {
		t.Fatal("expected partial unique index on active enquiries per (party, category)")
	}
	if !strings.Contains(sql, "supplier_slots_party_category_key UNIQUE (party_id, category)") {
		t.Fatal("expected unique supplier slot per party and category")
	}
	if !strings.Contains(sql, "parties_budget_positive") {
		t.Fatal("expected positive budget check constraint")
	}
}

func TestMigrationFilenamesAreValid(t *testing.T) {
	entries, err := os.ReadDir("migrations")
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("expected at least one migration")
	}
	for _, e := range entries {
		name := e.Name()
		if !strings.HasSuffix(name, ".sql") {
			continue
		}
		if len(name) < 15 || name[14] != '_' {
			t.Fatalf("migration %q does not follow YYYYMMDDHHMMSS_name.sql", name)
		}
	}
}
