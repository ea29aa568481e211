package adminusers

import (
	"context"
	"errors"
	"strings"

	"github.com/uptrace/bun"

	"quickstock/frontend/login"
	"quickstock/infrastructure/argon"
	"quickstock/infrastructure/rbac"
	"quickstock/infrastructure/sqlite"
)

var (
	ErrUsernameRequired = errors.New("username is required")
	ErrPasswordRequired = errors.New("password is required")
	ErrInvalidRole      = errors.New("role must be admin or scanner")
	ErrUsernameExists   = errors.New("username already exists")
)

// ListUsers returns all accounts ordered by id.
func ListUsers(ctx context.Context, db *sqlite.DB) ([]UserRow, error) {
	users := make([]UserRow, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`SELECT id, username, role FROM users ORDER BY id ASC`).Scan(ctx, &users)
	})
	return users, err
}

// CreateUser validates inputs, enforces the password policy and inserts
// the account with an argon2id hash. Usernames are unique case-insensitively.
func CreateUser(ctx context.Context, db *sqlite.DB, username, password, role string) error {
	username = strings.TrimSpace(username)
	role = strings.TrimSpace(role)

	if username == "" {
		return ErrUsernameRequired
	}
	if password == "" {
		return ErrPasswordRequired
	}
	if role != rbac.RoleAdmin && role != rbac.RoleScanner {
		return ErrInvalidRole
	}
	if err := login.ValidatePasswordPolicy(password); err != nil {
		return err
	}

	hash, err := argon.CreateHash(password, argon.DefaultParams)
	if err != nil {
		return err
	}

	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var count int
		if err := tx.NewRaw(`SELECT COUNT(1) FROM users WHERE LOWER(username) = ?`, strings.ToLower(username)).Scan(ctx, &count); err != nil {
			return err
		}
		if count > 0 {
			return ErrUsernameExists
		}
		_, err := tx.ExecContext(ctx, `
INSERT INTO users (username, password_hash, role, created_at, updated_at)
VALUES (?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`, username, hash, role)
		return err
	})
}
