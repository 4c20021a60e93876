package store

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
)

// newTestStore connects to the database named by DATABASE_URL, skipping
// the test when none is configured.
func newTestStore(t *testing.T) *PgStore {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}

	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("connecting to postgres: %v", err)
	}
	t.Cleanup(pool.Close)

	s := NewPgStore(pool)
	if err := s.EnsureTable(context.Background()); err != nil {
		t.Fatalf("ensuring table: %v", err)
	}
	return s
}

func TestPgStoreSnapshotLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	name := "pgstore-test-forest"
	t.Cleanup(func() { s.Delete(ctx, name) })

	first := []byte(`[{"id":"a","name":"a","task_type":"simple"}]`)
	second := []byte(`[{"id":"a","name":"a-renamed","task_type":"simple"}]`)

	if _, err := s.Save(ctx, name, first); err != nil {
		t.Fatalf("saving first snapshot: %v", err)
	}
	if _, err := s.Save(ctx, name, second); err != nil {
		t.Fatalf("saving second snapshot: %v", err)
	}

	snap, err := s.Load(ctx, name)
	if err != nil {
		t.Fatalf("loading: %v", err)
	}
	if snap == nil {
		t.Fatal("latest snapshot missing")
	}
	if string(snap.Data) == string(first) {
		t.Error("Load returned the older snapshot")
	}

	names, err := s.List(ctx)
	if err != nil {
		t.Fatalf("listing: %v", err)
	}
	if _, ok := names[name]; !ok {
		t.Errorf("list does not contain %q", name)
	}

	deleted, err := s.Delete(ctx, name)
	if err != nil || !deleted {
		t.Errorf("delete = (%v, %v), want (true, nil)", deleted, err)
	}
	if snap, _ := s.Load(ctx, name); snap != nil {
		t.Error("snapshot still loadable after delete")
	}
}

func TestPgStoreLoadMissingReturnsNil(t *testing.T) {
	s := newTestStore(t)
	snap, err := s.Load(context.Background(), "never-saved")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if snap != nil {
		t.Error("missing forest must load as nil")
	}
}
