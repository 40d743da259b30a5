package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/fairlens/backend/internal/storage/sqlite"
	"github.com/fairlens/backend/pkg/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Init("error", "console", "stdout"); err != nil {
		os.Exit(1)
	}
	os.Exit(m.Run())
}

func newTestStore(t *testing.T) (*Store, *sqlite.Client, string) {
	t.Helper()
	dir := t.TempDir()

	db, err := sqlite.NewClient(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("sqlite client: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.InitSchema(); err != nil {
		t.Fatalf("init schema: %v", err)
	}

	uploads := filepath.Join(dir, "uploads")
	store, err := NewStore(uploads, db)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store, db, uploads
}

func TestStorePutGet(t *testing.T) {
	store, _, _ := newTestStore(t)
	f := parse(t, "gender,shortlisted\nM,1\nF,0\n")

	meta, err := store.Put(f, "candidates.csv")
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if meta.DatasetID == "" {
		t.Fatalf("empty dataset id")
	}
	if meta.Rows != 2 || meta.Columns != 2 {
		t.Errorf("meta shape = %dx%d", meta.Rows, meta.Columns)
	}
	if meta.Filename != "candidates.csv" {
		t.Errorf("filename = %q", meta.Filename)
	}
	if meta.HasAgeGroup {
		t.Errorf("HasAgeGroup = true without age_group column")
	}

	if _, err := os.Stat(store.csvPath(meta.DatasetID)); err != nil {
		t.Errorf("CSV not written to disk: %v", err)
	}

	got, gotMeta, err := store.Get(meta.DatasetID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != f {
		t.Errorf("cached Get returned a different frame")
	}
	if gotMeta.DatasetID != meta.DatasetID {
		t.Errorf("meta id = %q, want %q", gotMeta.DatasetID, meta.DatasetID)
	}
}

func TestStoreReloadFromDisk(t *testing.T) {
	store, db, uploads := newTestStore(t)
	f := parse(t, "gender,age,shortlisted\nM,25,1\nF,NA,0\n")

	meta, err := store.Put(f, "candidates.csv")
	if err != nil {
		t.Fatalf("Put: %v", err)
	}

	// A fresh store over the same directory and database simulates a restart
	// with an empty in-memory cache.
	fresh, err := NewStore(uploads, db)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	got, gotMeta, err := fresh.Get(meta.DatasetID)
	if err != nil {
		t.Fatalf("Get after reload: %v", err)
	}
	if got.Rows() != 2 {
		t.Errorf("reloaded rows = %d", got.Rows())
	}
	if gotMeta.Filename != "candidates.csv" {
		t.Errorf("reloaded filename = %q", gotMeta.Filename)
	}

	mask, _ := got.MissingMask("age")
	if !mask[1] {
		t.Errorf("missing cell lost across reload")
	}
}

func TestStoreGetUnknown(t *testing.T) {
	store, _, _ := newTestStore(t)

	_, _, err := store.Get("no-such-id")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestStoreDelete(t *testing.T) {
	store, _, _ := newTestStore(t)
	f := parse(t, "gender,shortlisted\nM,1\nF,0\n")

	meta, err := store.Put(f, "candidates.csv")
	if err != nil {
		t.Fatalf("Put: %v", err)
	}

	if err := store.Delete(meta.DatasetID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := os.Stat(store.csvPath(meta.DatasetID)); !os.IsNotExist(err) {
		t.Errorf("CSV still on disk after delete")
	}
	if _, _, err := store.Get(meta.DatasetID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete = %v, want ErrNotFound", err)
	}

	// Deleting twice is not an error.
	if err := store.Delete(meta.DatasetID); err != nil {
		t.Errorf("second Delete: %v", err)
	}
}

func TestStoreList(t *testing.T) {
	store, _, _ := newTestStore(t)

	first, err := store.Put(parse(t, "gender,shortlisted\nM,1\n"), "a.csv")
	if err != nil {
		t.Fatalf("Put a: %v", err)
	}
	second, err := store.Put(parse(t, "gender,shortlisted\nF,0\n"), "b.csv")
	if err != nil {
		t.Fatalf("Put b: %v", err)
	}

	all, err := store.List(10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("List(10) = %d datasets, want 2", len(all))
	}

	ids := map[string]bool{all[0].DatasetID: true, all[1].DatasetID: true}
	if !ids[first.DatasetID] || !ids[second.DatasetID] {
		t.Errorf("List missing an uploaded dataset: %v", ids)
	}

	one, err := store.List(1)
	if err != nil {
		t.Fatalf("List(1): %v", err)
	}
	if len(one) != 1 {
		t.Errorf("List(1) = %d datasets", len(one))
	}

	// SQLite treats LIMIT -1 as unlimited.
	unlimited, err := store.List(-1)
	if err != nil {
		t.Fatalf("List(-1): %v", err)
	}
	if len(unlimited) != 2 {
		t.Errorf("List(-1) = %d datasets", len(unlimited))
	}
}
