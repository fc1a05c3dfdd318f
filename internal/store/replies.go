package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Reply struct {
	ID        int64     `json:"id"`
	ReviewID  int64     `json:"review_id"`
	Name      string    `json:"name"`
	Message   string    `json:"message"`
	Approved  bool      `json:"approved"`
	CreatedAt time.Time `json:"created_at"`
}

type ReplyStore struct {
	db *pgxpool.Pool
}

func (s *ReplyStore) Create(ctx context.Context, reply *Reply) error {
	query := `
        INSERT INTO review_replies (review_id, name, message, approved)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at
    `
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return s.db.QueryRow(ctx, query,
		reply.ReviewID,
		reply.Name,
		reply.Message,
		reply.Approved,
	).Scan(&reply.ID, &reply.CreatedAt)
}

func (s *ReplyStore) GetByID(ctx context.Context, replyID int64) (*Reply, error) {
	query := `
        SELECT id, review_id, name, message, approved, created_at
        FROM review_replies
        WHERE id = $1
    `
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var reply Reply
	err := s.db.QueryRow(ctx, query, replyID).Scan(
		&reply.ID,
		&reply.ReviewID,
		&reply.Name,
		&reply.Message,
		&reply.Approved,
		&reply.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &reply, nil
}

// GetApprovedForReviews nests one level of replies under their reviews,
// oldest first within each thread.
func (s *ReplyStore) GetApprovedForReviews(ctx context.Context, reviewIDs []int64) (map[int64][]Reply, error) {
	grouped := make(map[int64][]Reply)
	if len(reviewIDs) == 0 {
		return grouped, nil
	}

	query := `
        SELECT id, review_id, name, message, approved, created_at
        FROM review_replies
        WHERE approved = true AND review_id = ANY($1)
        ORDER BY created_at ASC
    `
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := s.db.Query(ctx, query, reviewIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var reply Reply
		err := rows.Scan(
			&reply.ID,
			&reply.ReviewID,
			&reply.Name,
			&reply.Message,
			&reply.Approved,
			&reply.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		grouped[reply.ReviewID] = append(grouped[reply.ReviewID], reply)
	}
	return grouped, rows.Err()
}

func (s *ReplyStore) GetPending(ctx context.Context) ([]Reply, error) {
	query := `
        SELECT id, review_id, name, message, approved, created_at
        FROM review_replies
        WHERE approved = false
        ORDER BY created_at DESC
    `
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var replies []Reply
	for rows.Next() {
		var reply Reply
		err := rows.Scan(
			&reply.ID,
			&reply.ReviewID,
			&reply.Name,
			&reply.Message,
			&reply.Approved,
			&reply.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		replies = append(replies, reply)
	}
	return replies, rows.Err()
}

func (s *ReplyStore) Approve(ctx context.Context, replyID int64) error {
	query := `
        UPDATE review_replies SET approved = true WHERE id = $1
    `
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := s.db.Exec(ctx, query, replyID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
