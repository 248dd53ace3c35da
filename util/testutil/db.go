package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/qrpstudio/media-services/records"
)

// OpenTestDB opens a migrated records database under the test's temp
// dir and closes it when the test ends.
func OpenTestDB(t *testing.T) *records.DB {
	t.Helper()
	db, err := records.Open(filepath.Join(t.TempDir(), "records.db"))
	if err != nil {
		t.Fatalf("cannot open test db: %v", err)
	}
	err = db.Migrate(context.Background())
	if err != nil {
		t.Fatalf("cannot migrate test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}
