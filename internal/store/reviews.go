package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Review struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"-"`      // used for the auto-reply only, never rendered
	Rating    int       `json:"rating"` // 1-5
	Message   string    `json:"message"`
	AvatarURL *string   `json:"avatar_url"`
	Likes     int       `json:"likes"`
	Approved  bool      `json:"approved"`
	CreatedAt time.Time `json:"created_at"`

	// Populated on listing reads
	Replies []Reply `json:"replies,omitempty"`
}

type ReviewStore struct {
	db *pgxpool.Pool
}

func (s *ReviewStore) Create(ctx context.Context, review *Review) error {
	query := `
        INSERT INTO reviews (name, email, rating, message, likes, approved)
        VALUES ($1, $2, $3, $4, 0, $5)
        RETURNING id, likes, created_at
    `
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return s.db.QueryRow(ctx, query,
		review.Name,
		review.Email,
		review.Rating,
		review.Message,
		review.Approved,
	).Scan(&review.ID, &review.Likes, &review.CreatedAt)
}

func (s *ReviewStore) GetByID(ctx context.Context, reviewID int64) (*Review, error) {
	query := `
        SELECT id, name, email, rating, message, avatar_url, likes, approved, created_at
        FROM reviews
        WHERE id = $1
    `
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var review Review
	err := s.db.QueryRow(ctx, query, reviewID).Scan(
		&review.ID,
		&review.Name,
		&review.Email,
		&review.Rating,
		&review.Message,
		&review.AvatarURL,
		&review.Likes,
		&review.Approved,
		&review.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &review, nil
}

// GetApproved returns the publicly visible listing: approved reviews only,
// newest first. Replies are attached by the caller.
func (s *ReviewStore) GetApproved(ctx context.Context) ([]Review, error) {
	query := `
        SELECT id, name, email, rating, message, avatar_url, likes, approved, created_at
        FROM reviews
        WHERE approved = true
        ORDER BY created_at DESC
    `
	return s.queryReviews(ctx, query)
}

func (s *ReviewStore) GetPending(ctx context.Context) ([]Review, error) {
	query := `
        SELECT id, name, email, rating, message, avatar_url, likes, approved, created_at
        FROM reviews
        WHERE approved = false
        ORDER BY created_at DESC
    `
	return s.queryReviews(ctx, query)
}

func (s *ReviewStore) queryReviews(ctx context.Context, query string) ([]Review, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []Review
	for rows.Next() {
		var review Review
		err := rows.Scan(
			&review.ID,
			&review.Name,
			&review.Email,
			&review.Rating,
			&review.Message,
			&review.AvatarURL,
			&review.Likes,
			&review.Approved,
			&review.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}
	return reviews, rows.Err()
}

func (s *ReviewStore) SetAvatarURL(ctx context.Context, reviewID int64, avatarURL string) error {
	query := `
        UPDATE reviews SET avatar_url = $2 WHERE id = $1
    `
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := s.db.Exec(ctx, query, reviewID, avatarURL)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *ReviewStore) GetLikes(ctx context.Context, reviewID int64) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var likes int
	err := s.db.QueryRow(ctx, `SELECT likes FROM reviews WHERE id = $1`, reviewID).Scan(&likes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return likes, nil
}

// SetLikes writes an absolute value computed by the caller from a prior
// GetLikes. Two sessions liking the same review at once can last-writer-win;
// the realtime broadcast of the stored value is what converges every widget
// afterwards.
func (s *ReviewStore) SetLikes(ctx context.Context, reviewID int64, likes int) error {
	query := `
        UPDATE reviews SET likes = $2 WHERE id = $1
    `
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := s.db.Exec(ctx, query, reviewID, likes)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *ReviewStore) Approve(ctx context.Context, reviewID int64) error {
	query := `
        UPDATE reviews SET approved = true WHERE id = $1
    `
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := s.db.Exec(ctx, query, reviewID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *ReviewStore) Stats(ctx context.Context) (total int, average float64, err error) {
	query := `
        SELECT
            COUNT(id) as total_reviews,
            COALESCE(AVG(rating), 0) as average_rating
        FROM reviews
        WHERE approved = true
    `
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	err = s.db.QueryRow(ctx, query).Scan(&total, &average)
	return total, average, err
}
