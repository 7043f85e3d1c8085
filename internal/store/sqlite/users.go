package sqlite

import (
	"context"
	"database/sql"

	"github.com/journeyreads/journey-server/internal/domain"
	"github.com/journeyreads/journey-server/internal/store"
)

// userColumns is the ordered list of columns selected in user queries.
// Must match the scan order in scanUser.
const userColumns = `id, display_name, email, handle, bio, avatar_url, created_at`

// scanUser scans a sql.Row (or sql.Rows via its Scan method) into a domain.User.
func scanUser(scanner interface{ Scan(dest ...any) error }) (*domain.User, error) {
	var u domain.User

	var (
		email     sql.NullString
		handle    sql.NullString
		createdAt string
	)

	err := scanner.Scan(
		&u.ID,
		&u.DisplayName,
		&email,
		&handle,
		&u.Bio,
		&u.AvatarURL,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	u.Email = email.String
	u.Handle = handle.String

	u.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}

	return &u, nil
}

// UpsertUser inserts a user or refreshes their profile fields.
// Returns store.ErrAlreadyExists when the handle is taken by another user.
func (s *Store) UpsertUser(ctx context.Context, user *domain.User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, display_name, email, handle, bio, avatar_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			display_name = excluded.display_name,
			email = excluded.email,
			handle = excluded.handle,
			bio = excluded.bio,
			avatar_url = excluded.avatar_url`,
		user.ID,
		user.DisplayName,
		nullString(user.Email),
		nullString(user.Handle),
		user.Bio,
		user.AvatarURL,
		formatTime(user.CreatedAt),
	)
	if err != nil && isUniqueViolation(err) {
		return store.ErrAlreadyExists
	}
	return err
}

// GetUser retrieves a user by ID.
// Returns store.ErrNotFound if the user does not exist.
func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)

	user, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetUserByHandle retrieves a user by their public handle.
// Returns store.ErrNotFound if no user holds the handle.
func (s *Store) GetUserByHandle(ctx context.Context, handle string) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE handle = ?`, handle)

	user, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}
