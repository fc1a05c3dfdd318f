package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Enquiry struct {
	ID        int64     `json:"id"`
	Reference string    `json:"reference"`
	Name      string    `json:"name"`
	Email     string    `json:"-"`
	Service   string    `json:"service"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

type EnquiryStore struct {
	db *pgxpool.Pool
}

func (s *EnquiryStore) Create(ctx context.Context, enquiry *Enquiry) error {
	query := `
        INSERT INTO enquiries (name, email, service, message)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at
    `
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return s.db.QueryRow(ctx, query,
		enquiry.Name,
		enquiry.Email,
		enquiry.Service,
		enquiry.Message,
	).Scan(&enquiry.ID, &enquiry.CreatedAt)
}

func (s *EnquiryStore) SetReference(ctx context.Context, enquiryID int64, reference string) error {
	query := `
        UPDATE enquiries SET reference = $2 WHERE id = $1
    `
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := s.db.Exec(ctx, query, enquiryID, reference)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *EnquiryStore) List(ctx context.Context) ([]Enquiry, error) {
	query := `
        SELECT id, COALESCE(reference, ''), name, email, service, message, created_at
        FROM enquiries
        ORDER BY created_at DESC
    `
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var enquiries []Enquiry
	for rows.Next() {
		var enquiry Enquiry
		err := rows.Scan(
			&enquiry.ID,
			&enquiry.Reference,
			&enquiry.Name,
			&enquiry.Email,
			&enquiry.Service,
			&enquiry.Message,
			&enquiry.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		enquiries = append(enquiries, enquiry)
	}
	return enquiries, rows.Err()
}
