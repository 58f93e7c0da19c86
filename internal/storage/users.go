package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ErrEmptyUsername is returned by EnsureUser for blank names.
var ErrEmptyUsername = errors.New("storage: empty username")

// EnsureUser returns the ID for a username, creating the user on first use.
// IDs are random UUIDs so scores survive a rename on another host.
func (s *Store) EnsureUser(ctx context.Context, username string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return "", ErrEmptyUsername
	}

	id, err := s.UserID(ctx, username)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", err
	}

	id = uuid.NewString()
	if _, err := s.db.ExecContext(ctx,
		"INSERT INTO users (id, username) VALUES (?, ?) ON CONFLICT(username) DO NOTHING",
		id, username,
	); err != nil {
		return "", fmt.Errorf("storage: cannot create user: %w", err)
	}
	// Another session may have won the insert.
	return s.UserID(ctx, username)
}

// UserID looks up a user. It returns an error wrapping sql.ErrNoRows when
// the user does not exist.
func (s *Store) UserID(ctx context.Context, username string) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx, "SELECT id FROM users WHERE username = ?", strings.TrimSpace(username)).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("storage: cannot query user: %w", err)
	}
	return id, nil
}
