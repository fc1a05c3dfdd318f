package store

import (
	"context"
	"sync"
	"time"
)

// CallLog records store activity so handler tests can assert which adapters
// were (and were not) reached.
type CallLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *CallLog) record(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, name)
}

func (l *CallLog) Calls() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

func (l *CallLog) Has(name string) bool {
	for _, c := range l.Calls() {
		if c == name {
			return true
		}
	}
	return false
}

// NewMockStorage returns a Storage whose behavior is overridable per method
// through the returned mock stores. Unset hooks succeed with zero values.
func NewMockStorage() (Storage, *MockReviewStore, *MockReplyStore, *MockEnquiryStore, *CallLog) {
	log := &CallLog{}
	reviews := &MockReviewStore{log: log}
	replies := &MockReplyStore{log: log}
	enquiries := &MockEnquiryStore{log: log}
	return Storage{
		Reviews:   reviews,
		Replies:   replies,
		Enquiries: enquiries,
	}, reviews, replies, enquiries, log
}

type MockReviewStore struct {
	log *CallLog

	CreateFn       func(ctx context.Context, review *Review) error
	GetByIDFn      func(ctx context.Context, reviewID int64) (*Review, error)
	GetApprovedFn  func(ctx context.Context) ([]Review, error)
	GetPendingFn   func(ctx context.Context) ([]Review, error)
	SetAvatarURLFn func(ctx context.Context, reviewID int64, avatarURL string) error
	GetLikesFn     func(ctx context.Context, reviewID int64) (int, error)
	SetLikesFn     func(ctx context.Context, reviewID int64, likes int) error
	ApproveFn      func(ctx context.Context, reviewID int64) error
	StatsFn        func(ctx context.Context) (int, float64, error)
}

func (m *MockReviewStore) Create(ctx context.Context, review *Review) error {
	m.log.record("reviews.Create")
	if m.CreateFn != nil {
		return m.CreateFn(ctx, review)
	}
	review.ID = 1
	review.CreatedAt = time.Now()
	return nil
}

func (m *MockReviewStore) GetByID(ctx context.Context, reviewID int64) (*Review, error) {
	m.log.record("reviews.GetByID")
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, reviewID)
	}
	return &Review{ID: reviewID, Approved: true}, nil
}

func (m *MockReviewStore) GetApproved(ctx context.Context) ([]Review, error) {
	m.log.record("reviews.GetApproved")
	if m.GetApprovedFn != nil {
		return m.GetApprovedFn(ctx)
	}
	return nil, nil
}

func (m *MockReviewStore) GetPending(ctx context.Context) ([]Review, error) {
	m.log.record("reviews.GetPending")
	if m.GetPendingFn != nil {
		return m.GetPendingFn(ctx)
	}
	return nil, nil
}

func (m *MockReviewStore) SetAvatarURL(ctx context.Context, reviewID int64, avatarURL string) error {
	m.log.record("reviews.SetAvatarURL")
	if m.SetAvatarURLFn != nil {
		return m.SetAvatarURLFn(ctx, reviewID, avatarURL)
	}
	return nil
}

func (m *MockReviewStore) GetLikes(ctx context.Context, reviewID int64) (int, error) {
	m.log.record("reviews.GetLikes")
	if m.GetLikesFn != nil {
		return m.GetLikesFn(ctx, reviewID)
	}
	return 0, nil
}

func (m *MockReviewStore) SetLikes(ctx context.Context, reviewID int64, likes int) error {
	m.log.record("reviews.SetLikes")
	if m.SetLikesFn != nil {
		return m.SetLikesFn(ctx, reviewID, likes)
	}
	return nil
}

func (m *MockReviewStore) Approve(ctx context.Context, reviewID int64) error {
	m.log.record("reviews.Approve")
	if m.ApproveFn != nil {
		return m.ApproveFn(ctx, reviewID)
	}
	return nil
}

func (m *MockReviewStore) Stats(ctx context.Context) (int, float64, error) {
	m.log.record("reviews.Stats")
	if m.StatsFn != nil {
		return m.StatsFn(ctx)
	}
	return 0, 0, nil
}

type MockReplyStore struct {
	log *CallLog

	CreateFn                func(ctx context.Context, reply *Reply) error
	GetByIDFn               func(ctx context.Context, replyID int64) (*Reply, error)
	GetApprovedForReviewsFn func(ctx context.Context, reviewIDs []int64) (map[int64][]Reply, error)
	GetPendingFn            func(ctx context.Context) ([]Reply, error)
	ApproveFn               func(ctx context.Context, replyID int64) error
}

func (m *MockReplyStore) Create(ctx context.Context, reply *Reply) error {
	m.log.record("replies.Create")
	if m.CreateFn != nil {
		return m.CreateFn(ctx, reply)
	}
	reply.ID = 1
	reply.CreatedAt = time.Now()
	return nil
}

func (m *MockReplyStore) GetByID(ctx context.Context, replyID int64) (*Reply, error) {
	m.log.record("replies.GetByID")
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, replyID)
	}
	return &Reply{ID: replyID}, nil
}

func (m *MockReplyStore) GetApprovedForReviews(ctx context.Context, reviewIDs []int64) (map[int64][]Reply, error) {
	m.log.record("replies.GetApprovedForReviews")
	if m.GetApprovedForReviewsFn != nil {
		return m.GetApprovedForReviewsFn(ctx, reviewIDs)
	}
	return map[int64][]Reply{}, nil
}

func (m *MockReplyStore) GetPending(ctx context.Context) ([]Reply, error) {
	m.log.record("replies.GetPending")
	if m.GetPendingFn != nil {
		return m.GetPendingFn(ctx)
	}
	return nil, nil
}

func (m *MockReplyStore) Approve(ctx context.Context, replyID int64) error {
	m.log.record("replies.Approve")
	if m.ApproveFn != nil {
		return m.ApproveFn(ctx, replyID)
	}
	return nil
}

type MockEnquiryStore struct {
	log *CallLog

	CreateFn       func(ctx context.Context, enquiry *Enquiry) error
	SetReferenceFn func(ctx context.Context, enquiryID int64, reference string) error
	ListFn         func(ctx context.Context) ([]Enquiry, error)
}

func (m *MockEnquiryStore) Create(ctx context.Context, enquiry *Enquiry) error {
	m.log.record("enquiries.Create")
	if m.CreateFn != nil {
		return m.CreateFn(ctx, enquiry)
	}
	enquiry.ID = 1
	enquiry.CreatedAt = time.Now()
	return nil
}

func (m *MockEnquiryStore) SetReference(ctx context.Context, enquiryID int64, reference string) error {
	m.log.record("enquiries.SetReference")
	if m.SetReferenceFn != nil {
		return m.SetReferenceFn(ctx, enquiryID, reference)
	}
	return nil
}

func (m *MockEnquiryStore) List(ctx context.Context) ([]Enquiry, error) {
	m.log.record("enquiries.List")
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	return nil, nil
}
