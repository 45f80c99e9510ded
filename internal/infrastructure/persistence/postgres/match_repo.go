package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/lora213/buddyhub/internal/domain/match"
	"github.com/lora213/buddyhub/internal/domain/shared"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// MATCH REQUEST REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// MatchRequestRepository implements match.RequestRepository for PostgreSQL.
type MatchRequestRepository struct {
	conn *Connection
}

// NewMatchRequestRepository creates a new MatchRequestRepository.
func NewMatchRequestRepository(conn *Connection) *MatchRequestRepository {
	return &MatchRequestRepository{conn: conn}
}

// CreateIfAbsent atomically inserts a request unless its unordered pair
// already has one. The pair uniqueness lives in idx_match_requests_pair,
// so two concurrent sends race on the index, not on a check-then-insert.
func (r *MatchRequestRepository) CreateIfAbsent(ctx context.Context, req *match.Request) (bool, error) {
	query := `
		INSERT INTO match_requests (
			id, sender_id, receiver_id, compatibility_score,
			match_reason, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT ((LEAST(sender_id, receiver_id)), (GREATEST(sender_id, receiver_id)))
		DO NOTHING
	`

	result, err := r.conn.Exec(ctx, query,
		req.ID,
		string(req.SenderID),
		string(req.ReceiverID),
		req.CompatibilityScore,
		req.MatchReason,
		string(req.Status),
		req.CreatedAt,
		req.UpdatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to create match request: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// GetByID returns a match request by ID.
func (r *MatchRequestRepository) GetByID(ctx context.Context, id string) (*match.Request, error) {
	query := `
		SELECT id, sender_id, receiver_id, compatibility_score,
			   match_reason, status, created_at, updated_at
		FROM match_requests
		WHERE id = $1
	`

	row := r.conn.QueryRow(ctx, query, id)
	return r.scanRequest(row)
}

// GetByPair returns the request for an unordered pair of users.
func (r *MatchRequestRepository) GetByPair(ctx context.Context, pair shared.Pair) (*match.Request, error) {
	query := `
		SELECT id, sender_id, receiver_id, compatibility_score,
			   match_reason, status, created_at, updated_at
		FROM match_requests
		WHERE (sender_id = $1 AND receiver_id = $2)
		   OR (sender_id = $2 AND receiver_id = $1)
	`

	row := r.conn.QueryRow(ctx, query, string(pair.Low), string(pair.High))
	return r.scanRequest(row)
}

// UpdateStatus persists a status transition of a request.
func (r *MatchRequestRepository) UpdateStatus(ctx context.Context, req *match.Request) error {
	query := `
		UPDATE match_requests
		SET status = $1, updated_at = $2
		WHERE id = $3
	`

	result, err := r.conn.Exec(ctx, query,
		string(req.Status),
		time.Now().UTC(),
		req.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update match request status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return shared.ErrMatchRequestNotFound
	}

	return nil
}

// ListSent returns requests sent by a user, newest first.
func (r *MatchRequestRepository) ListSent(ctx context.Context, senderID shared.UserID, opts match.RequestListOptions) ([]*match.Request, error) {
	return r.list(ctx, "sender_id", senderID, opts)
}

// ListReceived returns requests received by a user, newest first.
func (r *MatchRequestRepository) ListReceived(ctx context.Context, receiverID shared.UserID, opts match.RequestListOptions) ([]*match.Request, error) {
	return r.list(ctx, "receiver_id", receiverID, opts)
}

func (r *MatchRequestRepository) list(ctx context.Context, column string, userID shared.UserID, opts match.RequestListOptions) ([]*match.Request, error) {
	query := fmt.Sprintf(`
		SELECT id, sender_id, receiver_id, compatibility_score,
			   match_reason, status, created_at, updated_at
		FROM match_requests
		WHERE %s = $1
	`, column)

	args := []interface{}{string(userID)}
	if opts.Status != "" {
		query += " AND status = $2"
		args = append(args, string(opts.Status))
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, opts.Pagination.Limit, opts.Pagination.Offset)

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list match requests: %w", err)
	}
	defer rows.Close()

	return r.scanRequests(rows)
}

// ListPartnerIDs returns the IDs of all users the given user has a request
// with, in any status. Used by the match finder post-filter.
func (r *MatchRequestRepository) ListPartnerIDs(ctx context.Context, userID shared.UserID) ([]shared.UserID, error) {
	query := `
		SELECT CASE WHEN sender_id = $1 THEN receiver_id ELSE sender_id END
		FROM match_requests
		WHERE sender_id = $1 OR receiver_id = $1
	`

	return queryUserIDs(ctx, r.conn, query, string(userID))
}

// ─────────────────────────────────────────────────────────────────────────────
// Scan Helpers
// ─────────────────────────────────────────────────────────────────────────────

func (r *MatchRequestRepository) scanRequest(row pgx.Row) (*match.Request, error) {
	var req match.Request
	var senderID, receiverID, status string

	err := row.Scan(
		&req.ID,
		&senderID,
		&receiverID,
		&req.CompatibilityScore,
		&req.MatchReason,
		&status,
		&req.CreatedAt,
		&req.UpdatedAt,
	)

	if IsNoRows(err) {
		return nil, shared.ErrMatchRequestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan match request: %w", err)
	}

	req.SenderID = shared.UserID(senderID)
	req.ReceiverID = shared.UserID(receiverID)
	req.Status = match.RequestStatus(status)

	return &req, nil
}

func (r *MatchRequestRepository) scanRequests(rows pgx.Rows) ([]*match.Request, error) {
	requests := make([]*match.Request, 0)

	for rows.Next() {
		var req match.Request
		var senderID, receiverID, status string

		err := rows.Scan(
			&req.ID,
			&senderID,
			&receiverID,
			&req.CompatibilityScore,
			&req.MatchReason,
			&status,
			&req.CreatedAt,
			&req.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match request: %w", err)
		}

		req.SenderID = shared.UserID(senderID)
		req.ReceiverID = shared.UserID(receiverID)
		req.Status = match.RequestStatus(status)

		requests = append(requests, &req)
	}

	return requests, rows.Err()
}

// ══════════════════════════════════════════════════════════════════════════════
// CONNECTION REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// ConnectionRepository implements match.ConnectionRepository for PostgreSQL.
type ConnectionRepository struct {
	conn *Connection
}

// NewConnectionRepository creates a new ConnectionRepository.
func NewConnectionRepository(conn *Connection) *ConnectionRepository {
	return &ConnectionRepository{conn: conn}
}

// Create creates a connection. The pair unique index maps to
// shared.ErrConnectionExists.
func (r *ConnectionRepository) Create(ctx context.Context, c *match.Connection) error {
	query := `
		INSERT INTO connections (
			id, user1_id, user2_id, match_request_id,
			compatibility_score, match_details, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.conn.Exec(ctx, query,
		c.ID,
		string(c.User1ID),
		string(c.User2ID),
		c.MatchRequestID,
		c.CompatibilityScore,
		c.MatchDetails,
		c.CreatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrConnectionExists
		}
		return fmt.Errorf("failed to create connection: %w", err)
	}

	return nil
}

// GetByID returns a connection by ID.
func (r *ConnectionRepository) GetByID(ctx context.Context, id string) (*match.Connection, error) {
	query := `
		SELECT id, user1_id, user2_id, match_request_id,
			   compatibility_score, match_details, created_at
		FROM connections
		WHERE id = $1
	`

	row := r.conn.QueryRow(ctx, query, id)
	return r.scanConnection(row)
}

// GetByPair returns the connection for an unordered pair of users.
func (r *ConnectionRepository) GetByPair(ctx context.Context, pair shared.Pair) (*match.Connection, error) {
	query := `
		SELECT id, user1_id, user2_id, match_request_id,
			   compatibility_score, match_details, created_at
		FROM connections
		WHERE (user1_id = $1 AND user2_id = $2)
		   OR (user1_id = $2 AND user2_id = $1)
	`

	row := r.conn.QueryRow(ctx, query, string(pair.Low), string(pair.High))
	return r.scanConnection(row)
}

// ListForUser returns all connections of a user, newest first.
func (r *ConnectionRepository) ListForUser(ctx context.Context, userID shared.UserID, pagination shared.Pagination) ([]*match.Connection, error) {
	query := `
		SELECT id, user1_id, user2_id, match_request_id,
			   compatibility_score, match_details, created_at
		FROM connections
		WHERE user1_id = $1 OR user2_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.conn.Query(ctx, query, string(userID), pagination.Limit, pagination.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list connections: %w", err)
	}
	defer rows.Close()

	connections := make([]*match.Connection, 0)
	for rows.Next() {
		c, err := r.scanConnectionFromRows(rows)
		if err != nil {
			return nil, err
		}
		connections = append(connections, c)
	}

	return connections, rows.Err()
}

// ListPartnerIDs returns the IDs of all users connected to the given one.
func (r *ConnectionRepository) ListPartnerIDs(ctx context.Context, userID shared.UserID) ([]shared.UserID, error) {
	query := `
		SELECT CASE WHEN user1_id = $1 THEN user2_id ELSE user1_id END
		FROM connections
		WHERE user1_id = $1 OR user2_id = $1
	`

	return queryUserIDs(ctx, r.conn, query, string(userID))
}

// CountForUser returns the number of connections a user has.
func (r *ConnectionRepository) CountForUser(ctx context.Context, userID shared.UserID) (int, error) {
	var count int
	err := r.conn.QueryRow(ctx,
		"SELECT COUNT(*) FROM connections WHERE user1_id = $1 OR user2_id = $1",
		string(userID),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count connections: %w", err)
	}
	return count, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Scan Helpers
// ─────────────────────────────────────────────────────────────────────────────

func (r *ConnectionRepository) scanConnection(row pgx.Row) (*match.Connection, error) {
	c, err := scanConnectionRow(row)
	if IsNoRows(err) {
		return nil, shared.ErrConnectionNotFound
	}
	return c, err
}

func (r *ConnectionRepository) scanConnectionFromRows(rows pgx.Rows) (*match.Connection, error) {
	return scanConnectionRow(rows)
}

func scanConnectionRow(row pgx.Row) (*match.Connection, error) {
	var c match.Connection
	var user1ID, user2ID string

	err := row.Scan(
		&c.ID,
		&user1ID,
		&user2ID,
		&c.MatchRequestID,
		&c.CompatibilityScore,
		&c.MatchDetails,
		&c.CreatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan connection: %w", err)
	}

	c.User1ID = shared.UserID(user1ID)
	c.User2ID = shared.UserID(user2ID)

	return &c, nil
}

// queryUserIDs runs a single-column user ID query shared by the partner lists.
func queryUserIDs(ctx context.Context, conn *Connection, query string, args ...interface{}) ([]shared.UserID, error) {
	rows, err := conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query user ids: %w", err)
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
