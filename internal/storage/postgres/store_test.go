package postgres

import (
	"context"
	"io/fs"
	"os"
	"testing"
	"time"

	"designrage/internal/game"
	"designrage/internal/profile"
	"designrage/internal/storage/postgres/migrations"
)

func TestOpen_MissingDSN(t *testing.T) {
	if _, err := Open(context.Background(), ""); err == nil {
		t.Error("Expected error for empty DSN")
	}
	if err := NewMigrator("").Up(context.Background()); err == nil {
		t.Error("Expected migrator error for empty DSN")
	}
}

func TestMigrations_ArePaired(t *testing.T) {
	ups, _ := fs.Glob(migrations.FS, "*.up.sql")
	downs, _ := fs.Glob(migrations.FS, "*.down.sql")
	if len(ups) == 0 {
		t.Fatal("Expected at least one up migration")
	}
	if len(ups) != len(downs) {
		t.Errorf("Expected paired migrations, got %d up and %d down", len(ups), len(downs))
	}
}

// Runs only against a real database, e.g.
// DESIGNRAGE_TEST_POSTGRES=postgres://localhost/designrage_test?sslmode=disable
func TestStore_Integration(t *testing.T) {
	dsn := os.Getenv("DESIGNRAGE_TEST_POSTGRES")
	if dsn == "" {
		t.Skip("DESIGNRAGE_TEST_POSTGRES not set")
	}
	ctx := context.Background()
	if err := NewMigrator(dsn).Up(ctx); err != nil && err != ErrNoChange {
		t.Fatalf("migrate: %v", err)
	}
	s, err := Open(ctx, dsn)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	key := "it-" + time.Now().Format("150405.000000")
	blob, _ := game.MarshalState(game.NewState())
	if err := s.SaveState(ctx, key, blob); err != nil {
		t.Fatalf("SaveState: %v", err)
	}
	got, ok, err := s.LoadState(ctx, key)
	if err != nil || !ok {
		t.Fatalf("LoadState: ok=%v err=%v", ok, err)
	}
	if _, err := game.UnmarshalState(got); err != nil {
		t.Errorf("stored blob does not decode: %v", err)
	}
	if err := s.DeleteState(ctx, key); err != nil {
		t.Fatalf("DeleteState: %v", err)
	}

	p := profile.New("integration", time.Now())
	if err := s.SaveProfile(ctx, key, p); err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}
	lp, ok, err := s.LoadProfile(ctx, key)
	if err != nil || !ok || lp.Username != "integration" {
		t.Errorf("Unexpected profile %+v ok=%v err=%v", lp, ok, err)
	}
}
