package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound          = errors.New("resource not found")
	QueryTimeoutDuration = time.Second * 5
)

type Storage struct {
	Reviews interface {
		Create(context.Context, *Review) error
		GetByID(context.Context, int64) (*Review, error)
		GetApproved(context.Context) ([]Review, error)
		GetPending(context.Context) ([]Review, error)
		SetAvatarURL(ctx context.Context, reviewID int64, avatarURL string) error
		GetLikes(ctx context.Context, reviewID int64) (int, error)
		SetLikes(ctx context.Context, reviewID int64, likes int) error
		Approve(ctx context.Context, reviewID int64) error
		Stats(context.Context) (total int, average float64, err error)
	}
	Replies interface {
		Create(context.Context, *Reply) error
		GetByID(context.Context, int64) (*Reply, error)
		GetApprovedForReviews(ctx context.Context, reviewIDs []int64) (map[int64][]Reply, error)
		GetPending(context.Context) ([]Reply, error)
		Approve(ctx context.Context, replyID int64) error
	}
	Enquiries interface {
		Create(context.Context, *Enquiry) error
		SetReference(ctx context.Context, enquiryID int64, reference string) error
		List(context.Context) ([]Enquiry, error)
	}
}

func NewStorage(db *pgxpool.Pool) Storage {
	return Storage{
		Reviews:   &ReviewStore{db},
		Replies:   &ReplyStore{db},
		Enquiries: &EnquiryStore{db},
	}
}
