package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/umkmdelicious/backend/pkg/migrate"
)

func TestMigrationsDirIsValid(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("validate migrations dir: %v", err)
	}
}

func TestInvoicesMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_invoices.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS invoices",
		"CHECK (status IN ('waiting', 'processing', 'done'))",
		"CHECK (total_amount >= 0)",
		"DROP TABLE IF EXISTS invoices",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestInvoiceItemsMigrationCascades(t *testing.T) {
	content := readMigration(t, "*_create_invoice_items.sql")

	checks := []string{
		"FOREIGN KEY (invoice_id) REFERENCES invoices(id) ON DELETE CASCADE",
		"FOREIGN KEY (food_id) REFERENCES foods(id) ON DELETE SET NULL",
		"CHECK (quantity > 0)",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestFoodsMigrationGuardsStock(t *testing.T) {
	content := readMigration(t, "*_create_foods.sql")

	if !strings.Contains(content, "CHECK (stock_quantity >= 0)") {
		t.Error("missing non-negative stock constraint")
	}
	if !strings.Contains(content, "ingredients TEXT[]") {
		t.Error("missing ingredients array column")
	}
}

func readMigration(t *testing.T, pattern string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration matching %q found", pattern)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}
