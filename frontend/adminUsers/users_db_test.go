package adminusers

import (
	"context"
	"errors"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/uptrace/bun"

	"quickstock/infrastructure/argon"
	"quickstock/infrastructure/sqlite"
)

func openTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "users-test.db")
	db, err := sqlite.OpenDB(dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("runtime caller unavailable")
	}
	migrationsDir := filepath.Join(filepath.Dir(file), "..", "..", "infrastructure", "sqlite", "migrations")
	if err := sqlite.ApplyMigrations(context.Background(), db, migrationsDir); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return db
}

func loadUser(t *testing.T, db *sqlite.DB, username string) (role, hash string) {
	t.Helper()
	var row struct {
		Role         string `bun:"role"`
		PasswordHash string `bun:"password_hash"`
	}
	err := db.WithReadTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`SELECT role, password_hash FROM users WHERE username = ?`, username).Scan(ctx, &row)
	})
	if err != nil {
		t.Fatalf("load user: %v", err)
	}
	return row.Role, row.PasswordHash
}

func TestCreateUser_HashesPasswordAndStoresRole(t *testing.T) {
	db := openTestDB(t)

	if err := CreateUser(context.Background(), db, "scanner1", "Warehouse1!pass", "scanner"); err != nil {
		t.Fatalf("create user: %v", err)
	}

	role, hash := loadUser(t, db, "scanner1")
	if role != "scanner" {
		t.Fatalf("expected role scanner, got %q", role)
	}
	match, err := argon.ComparePasswordAndHash("Warehouse1!pass", hash)
	if err != nil {
		t.Fatalf("compare hash: %v", err)
	}
	if !match {
		t.Fatalf("stored hash does not match password")
	}
}

func TestCreateUser_DuplicateUsernameIsCaseInsensitive(t *testing.T) {
	db := openTestDB(t)

	if err := CreateUser(context.Background(), db, "Scanner1", "Warehouse1!pass", "scanner"); err != nil {
		t.Fatalf("create user: %v", err)
	}
	err := CreateUser(context.Background(), db, "scanner1", "Warehouse1!pass", "scanner")
	if !errors.Is(err, ErrUsernameExists) {
		t.Fatalf("expected ErrUsernameExists, got %v", err)
	}
}

func TestCreateUser_RejectsUnknownRole(t *testing.T) {
	db := openTestDB(t)

	err := CreateUser(context.Background(), db, "scanner1", "Warehouse1!pass", "operator")
	if !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}

func TestCreateUser_EnforcesPasswordPolicy(t *testing.T) {
	db := openTestDB(t)

	err := CreateUser(context.Background(), db, "scanner1", "short", "scanner")
	if err == nil || !strings.Contains(err.Error(), "password must") {
		t.Fatalf("expected password policy error, got %v", err)
	}
}

func TestCreateUser_RequiresUsernameAndPassword(t *testing.T) {
	db := openTestDB(t)

	if err := CreateUser(context.Background(), db, "  ", "Warehouse1!pass", "scanner"); !errors.Is(err, ErrUsernameRequired) {
		t.Fatalf("expected ErrUsernameRequired, got %v", err)
	}
	if err := CreateUser(context.Background(), db, "scanner1", "", "scanner"); !errors.Is(err, ErrPasswordRequired) {
		t.Fatalf("expected ErrPasswordRequired, got %v", err)
	}
}

func TestListUsers_OrdersByID(t *testing.T) {
	db := openTestDB(t)

	if err := CreateUser(context.Background(), db, "admin1", "Warehouse1!pass", "admin"); err != nil {
		t.Fatalf("create admin: %v", err)
	}
	if err := CreateUser(context.Background(), db, "scanner1", "Warehouse1!pass", "scanner"); err != nil {
		t.Fatalf("create scanner: %v", err)
	}

	users, err := ListUsers(context.Background(), db)
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
	if users[0].Username != "admin1" || users[1].Username != "scanner1" {
		t.Fatalf("unexpected order %+v", users)
	}
}
