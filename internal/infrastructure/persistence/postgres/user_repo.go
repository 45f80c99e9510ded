package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lora213/buddyhub/internal/domain/shared"
	"github.com/lora213/buddyhub/internal/domain/user"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// USER REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// UserRepository implements user.Repository for PostgreSQL.
type UserRepository struct {
	conn *Connection
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(conn *Connection) *UserRepository {
	return &UserRepository{conn: conn}
}

// Create creates a new user. The email unique constraint maps to
// shared.ErrUserAlreadyExists.
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (
			id, email, password_hash, full_name, github_username,
			linkedin_url, bio, status, last_seen_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.conn.Exec(ctx, query,
		string(u.ID),
		string(u.Email),
		u.PasswordHash,
		u.FullName,
		u.GitHubUsername.String(),
		u.LinkedInURL,
		u.Bio,
		string(u.Status),
		u.LastSeenAt,
		u.CreatedAt,
		u.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByID returns a user by internal ID.
func (r *UserRepository) GetByID(ctx context.Context, id shared.UserID) (*user.User, error) {
	query := `
		SELECT id, email, password_hash, full_name, github_username,
			   linkedin_url, bio, status, last_seen_at, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	row := r.conn.QueryRow(ctx, query, string(id))
	return r.scanUser(row)
}

// GetByEmail returns a user by normalized email.
func (r *UserRepository) GetByEmail(ctx context.Context, email shared.Email) (*user.User, error) {
	query := `
		SELECT id, email, password_hash, full_name, github_username,
			   linkedin_url, bio, status, last_seen_at, created_at, updated_at
		FROM users
		WHERE email = $1
	`

	row := r.conn.QueryRow(ctx, query, string(email))
	return r.scanUser(row)
}

// Update updates a user.
func (r *UserRepository) Update(ctx context.Context, u *user.User) error {
	query := `
		UPDATE users SET
			email = $1,
			password_hash = $2,
			full_name = $3,
			github_username = $4,
			linkedin_url = $5,
			bio = $6,
			status = $7,
			last_seen_at = $8,
			updated_at = $9
		WHERE id = $10
	`

	result, err := r.conn.Exec(ctx, query,
		string(u.Email),
		u.PasswordHash,
		u.FullName,
		u.GitHubUsername.String(),
		u.LinkedInURL,
		u.Bio,
		string(u.Status),
		u.LastSeenAt,
		time.Now().UTC(),
		string(u.ID),
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to update user: %w", err)
	}

	if result.RowsAffected() == 0 {
		return shared.ErrUserNotFound
	}

	return nil
}

// ListMatchable returns the IDs of all users participating in matching,
// except the given one. This is the candidate pool for match finding.
func (r *UserRepository) ListMatchable(ctx context.Context, exclude shared.UserID) ([]shared.UserID, error) {
	query := `
		SELECT id
		FROM users
		WHERE id != $1 AND status IN ('active', 'inactive')
		ORDER BY created_at ASC
	`

	rows, err := r.conn.Query(ctx, query, string(exclude))
	if err != nil {
		return nil, fmt.Errorf("failed to list matchable users: %w", err)
	}
	defer rows.Close()

	ids := make([]shared.UserID, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		ids = append(ids, shared.UserID(id))
	}

	return ids, rows.Err()
}

// GetPublicProfiles returns public profiles for a set of IDs.
// Missing IDs are silently skipped.
func (r *UserRepository) GetPublicProfiles(ctx context.Context, ids []shared.UserID) (map[shared.UserID]user.PublicProfile, error) {
	if len(ids) == 0 {
		return map[shared.UserID]user.PublicProfile{}, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = string(id)
	}

	query := fmt.Sprintf(`
		SELECT id, email, full_name, github_username, bio
		FROM users
		WHERE id IN (%s)
	`, strings.Join(placeholders, ", "))

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query public profiles: %w", err)
	}
	defer rows.Close()

	profiles := make(map[shared.UserID]user.PublicProfile, len(ids))
	for rows.Next() {
		var id, email string
		var p user.PublicProfile
		if err := rows.Scan(&id, &email, &p.FullName, &p.GitHubUsername, &p.Bio); err != nil {
			return nil, fmt.Errorf("failed to scan public profile: %w", err)
		}
		p.ID = shared.UserID(id)
		p.Email = shared.Email(email)
		profiles[p.ID] = p
	}

	return profiles, rows.Err()
}

// ─────────────────────────────────────────────────────────────────────────────
// Scan Helpers
// ─────────────────────────────────────────────────────────────────────────────

func (r *UserRepository) scanUser(row pgx.Row) (*user.User, error) {
	var u user.User
	var id, email, githubUsername, status string

	err := row.Scan(
		&id,
		&email,
		&u.PasswordHash,
		&u.FullName,
		&githubUsername,
		&u.LinkedInURL,
		&u.Bio,
		&status,
		&u.LastSeenAt,
		&u.CreatedAt,
		&u.UpdatedAt,
	)

	if IsNoRows(err) {
		return nil, shared.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}

	u.ID = shared.UserID(id)
	u.Email = shared.Email(email)
	u.GitHubUsername = user.GitHubUsername(githubUsername)
	u.Status = user.Status(status)

	return &u, nil
}
