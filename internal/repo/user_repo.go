package repo

import (
	"context"

	dom "medreport/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepo provides user persistence.
type UserRepo interface {
	Create(ctx context.Context, name, email string, passwordHash, googleID *string) (dom.User, error)
	GetByID(ctx context.Context, id string) (dom.User, error)
	GetByEmail(ctx context.Context, email string) (dom.User, error)
	GetByGoogleID(ctx context.Context, googleID string) (dom.User, error)
	UpdateName(ctx context.Context, id, name string) error
	UpdatePasswordHash(ctx context.Context, id, passwordHash string) error
	SetGoogleID(ctx context.Context, id, googleID string) error
}

// PGUserRepo implements UserRepo with Postgres.
type PGUserRepo struct {
	db *pgxpool.Pool
}

// NewPGUserRepo returns a new PGUserRepo.
func NewPGUserRepo(db *pgxpool.Pool) *PGUserRepo {
	return &PGUserRepo{db: db}
}

const userColumns = `id, name, email, password_hash, google_id, created_at, updated_at`

// Create inserts a new user and returns it. Duplicate email or google_id
// surfaces as a unique-violation error from Postgres.
func (r *PGUserRepo) Create(ctx context.Context, name, email string, passwordHash, googleID *string) (dom.User, error) {
	query := `
		INSERT INTO users (name, email, password_hash, google_id)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + userColumns
	var u dom.User
	err := r.db.QueryRow(ctx, query, name, email, passwordHash, googleID).Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.GoogleID, &u.CreatedAt, &u.UpdatedAt,
	)
	return u, err
}

// GetByID returns the user by id.
func (r *PGUserRepo) GetByID(ctx context.Context, id string) (dom.User, error) {
	var u dom.User
	err := r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id,
	).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.GoogleID, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// GetByEmail returns the user by email.
func (r *PGUserRepo) GetByEmail(ctx context.Context, email string) (dom.User, error) {
	var u dom.User
	err := r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email,
	).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.GoogleID, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// GetByGoogleID returns the user holding the given Google subject id.
func (r *PGUserRepo) GetByGoogleID(ctx context.Context, googleID string) (dom.User, error) {
	var u dom.User
	err := r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE google_id = $1`, googleID,
	).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.GoogleID, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// UpdateName replaces the display name.
func (r *PGUserRepo) UpdateName(ctx context.Context, id, name string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE users SET name = $2, updated_at = NOW() WHERE id = $1`, id, name)
	return err
}

// UpdatePasswordHash replaces the stored password hash.
func (r *PGUserRepo) UpdatePasswordHash(ctx context.Context, id, passwordHash string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`, id, passwordHash)
	return err
}

// SetGoogleID links a Google account. Overwrites any previous value on the
// same row; linking an id held by another row violates the unique constraint.
func (r *PGUserRepo) SetGoogleID(ctx context.Context, id, googleID string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE users SET google_id = $2, updated_at = NOW() WHERE id = $1`, id, googleID)
	return err
}
