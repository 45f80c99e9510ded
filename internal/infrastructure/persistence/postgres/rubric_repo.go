package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lora213/buddyhub/internal/domain/rubric"
	"github.com/lora213/buddyhub/internal/domain/shared"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// RUBRIC REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// RubricRepository implements rubric.Repository for PostgreSQL.
type RubricRepository struct {
	conn *Connection
}

// NewRubricRepository creates a new RubricRepository.
func NewRubricRepository(conn *Connection) *RubricRepository {
	return &RubricRepository{conn: conn}
}

// GetByUserID returns all rubric scores of a user.
// An empty set is not an error: the user just has not been analyzed yet.
func (r *RubricRepository) GetByUserID(ctx context.Context, userID shared.UserID) (rubric.ScoreSet, error) {
	query := `
		SELECT id, user_id, category, subcategory, score,
			   metadata_kind, metadata_value, metadata_bag, created_at
		FROM rubric_scores
		WHERE user_id = $1
		ORDER BY category, subcategory
	`

	rows, err := r.conn.Query(ctx, query, string(userID))
	if err != nil {
		return nil, fmt.Errorf("failed to query rubric scores: %w", err)
	}
	defer rows.Close()

	return r.scanScores(rows)
}

// ReplaceCategory atomically replaces all scores of a user in a category:
// delete-then-insert in a single transaction. There is no incremental upsert
// by subcategory, a re-analysis always rewrites the whole category.
func (r *RubricRepository) ReplaceCategory(ctx context.Context, userID shared.UserID, category rubric.Category, scores []rubric.RubricScore) error {
	return r.conn.WithTx(ctx, DefaultTxOptions(), func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			"DELETE FROM rubric_scores WHERE user_id = $1 AND category = $2",
			string(userID), string(category),
		)
		if err != nil {
			return fmt.Errorf("failed to delete category scores: %w", err)
		}

		insert := `
			INSERT INTO rubric_scores (
				id, user_id, category, subcategory, score,
				metadata_kind, metadata_value, metadata_bag, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`

		for _, s := range scores {
			var bagJSON []byte
			if s.Metadata.Bag != nil {
				bagJSON, err = json.Marshal(s.Metadata.Bag)
				if err != nil {
					return fmt.Errorf("failed to marshal metadata bag: %w", err)
				}
			}

			_, err = tx.Exec(ctx, insert,
				s.ID,
				string(s.UserID),
				string(s.Category),
				s.Subcategory,
				s.Score.Int(),
				string(s.Metadata.Kind),
				s.Metadata.Value,
				bagJSON,
				s.CreatedAt,
			)
			if err != nil {
				return fmt.Errorf("failed to insert rubric score: %w", err)
			}
		}

		return nil
	})
}

// CountByUserID returns the number of scores a user has.
func (r *RubricRepository) CountByUserID(ctx context.Context, userID shared.UserID) (int, error) {
	var count int
	err := r.conn.QueryRow(ctx,
		"SELECT COUNT(*) FROM rubric_scores WHERE user_id = $1",
		string(userID),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count rubric scores: %w", err)
	}
	return count, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Scan Helpers
// ─────────────────────────────────────────────────────────────────────────────

func (r *RubricRepository) scanScores(rows pgx.Rows) (rubric.ScoreSet, error) {
	scores := make(rubric.ScoreSet, 0)

	for rows.Next() {
		var s rubric.RubricScore
		var userID, category, kind string
		var scoreValue int
		var bagJSON []byte

		err := rows.Scan(
			&s.ID,
			&userID,
			&category,
			&s.Subcategory,
			&scoreValue,
			&kind,
			&s.Metadata.Value,
			&bagJSON,
			&s.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rubric score: %w", err)
		}

		s.UserID = shared.UserID(userID)
		s.Category = rubric.Category(category)
		s.Score = rubric.ScoreValue(scoreValue)
		s.Metadata.Kind = rubric.MetadataKind(kind)

		if len(bagJSON) > 0 {
			if err := json.Unmarshal(bagJSON, &s.Metadata.Bag); err != nil {
				return nil, fmt.Errorf("failed to unmarshal metadata bag: %w", err)
			}
		}

		scores = append(scores, s)
	}

	return scores, rows.Err()
}
