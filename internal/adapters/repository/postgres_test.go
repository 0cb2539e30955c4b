package repository

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

var _ Store = (*PostgresStore)(nil)

// testDatabaseURL returns FITCHECK_TEST_DATABASE_URL or skips the test.
func testDatabaseURL(t *testing.T) string {
	t.Helper()
	url := os.Getenv("FITCHECK_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("FITCHECK_TEST_DATABASE_URL not set")
	}
	return url
}

func TestPostgresStoreContract(t *testing.T) {
	dbURL := testDatabaseURL(t)

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		t.Skipf("test database unreachable: %v", err)
	}
	if err := RunMigrations(dbURL); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	// Each store gets its own user so runs never see each other's rows.
	runStoreContract(t, func() Store {
		return &postgresNoClose{NewPostgresStore(db, WithUserID("test-"+uuid.NewString()))}
	})
}

func TestOpenPostgresRequiresURL(t *testing.T) {
	if _, err := OpenPostgres(context.Background(), ""); err == nil {
		t.Fatal("expected an error for an empty database url")
	}
}

// postgresNoClose shares one pool across the contract runs.
type postgresNoClose struct {
	*PostgresStore
}

func (postgresNoClose) Close() error { return nil }
