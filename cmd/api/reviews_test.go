package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"folio/internal/moderation"
	"folio/internal/realtime"
	"folio/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mib = 1024 * 1024

func TestCreateReviewWithoutCaptchaToken(t *testing.T) {
	ta := newTestApp(t, moderation.Policy{})

	form := validReviewForm()
	form.CaptchaToken = ""

	rr := ta.do(t, newReviewRequest(t, form, 64))

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, 0, ta.captcha.Calls(), "captcha service must not be contacted")
	assert.Empty(t, ta.log.Calls(), "no adapter may be reached")
	assert.Equal(t, 0, ta.avatars.Calls())
}

func TestCreateReviewCaptchaRejected(t *testing.T) {
	ta := newTestApp(t, moderation.Policy{})
	ta.captcha.err = ErrTurnstileFailed

	rr := ta.do(t, newReviewRequest(t, validReviewForm(), 64))

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Empty(t, ta.log.Calls())
}

func TestCreateReviewOversizedAvatar(t *testing.T) {
	ta := newTestApp(t, moderation.Policy{})

	rr := ta.do(t, newReviewRequest(t, validReviewForm(), 3*mib))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "2 MB")
	assert.Equal(t, 0, ta.captcha.Calls())
	assert.Empty(t, ta.log.Calls())
	assert.Equal(t, 0, ta.avatars.Calls())
}

func TestCreateReviewMissingFields(t *testing.T) {
	ta := newTestApp(t, moderation.Policy{})

	form := validReviewForm()
	form.Message = ""

	rr := ta.do(t, newReviewRequest(t, form, 64))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Empty(t, ta.log.Calls())
}

func TestCreateReviewRatingOutOfRange(t *testing.T) {
	ta := newTestApp(t, moderation.Policy{})

	form := validReviewForm()
	form.Rating = 6

	rr := ta.do(t, newReviewRequest(t, form, 64))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Empty(t, ta.log.Calls())
}

func TestCreateReviewHappyPathAutoApproved(t *testing.T) {
	ta := newTestApp(t, moderation.Policy{AutoApproveReviews: true})

	var created store.Review
	ta.reviews.CreateFn = func(ctx context.Context, review *store.Review) error {
		review.ID = 42
		review.CreatedAt = time.Now()
		created = *review
		return nil
	}

	rr := ta.do(t, newReviewRequest(t, validReviewForm(), 64))

	require.Equal(t, http.StatusCreated, rr.Code)
	assert.True(t, created.Approved)
	assert.Equal(t, 5, created.Rating)
	assert.Equal(t, "Ada", created.Name)

	// insert, then upload, then patch; nothing skipped, nothing reordered
	assert.Equal(t, []string{"reviews.Create", "reviews.SetAvatarURL"}, ta.log.Calls())
	assert.Equal(t, 1, ta.avatars.Calls())

	data := decodeData(t, rr)
	assert.Equal(t, "https://cdn.example.com/avatars/review_1.png", data["avatar_url"])

	// both best-effort notifications went out
	require.Len(t, ta.relay.Sends(), 1)
	sends := ta.mailer.Sends()
	require.Len(t, sends, 1)
	assert.Equal(t, "ada@example.com", sends[0].email)
	assert.Empty(t, ta.failures.Failures())

	// approved review is announced on the feed
	events := ta.events.Events()
	require.Len(t, events, 1)
	assert.Equal(t, realtime.EventReviewCreated, events[0].eventType)
}

func TestCreateReviewPendingIsNotBroadcast(t *testing.T) {
	ta := newTestApp(t, moderation.Policy{})

	rr := ta.do(t, newReviewRequest(t, validReviewForm(), 64))

	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Empty(t, ta.events.Events(), "moderation-pending content must not reach subscribers")

	// admin gets both the relay note and the pending-approval mail
	require.Len(t, ta.relay.Sends(), 1)
	var templates []string
	for _, send := range ta.mailer.Sends() {
		templates = append(templates, send.template)
	}
	assert.Contains(t, templates, "review_pending_admin.tmpl")
}

func TestCreateReviewNotificationFailuresStillSucceed(t *testing.T) {
	ta := newTestApp(t, moderation.Policy{AutoApproveReviews: true})
	ta.relay.err = errors.New("relay down")
	ta.mailer.err = errors.New("smtp down")

	rr := ta.do(t, newReviewRequest(t, validReviewForm(), 64))

	assert.Equal(t, http.StatusCreated, rr.Code, "the lead is captured, delivery is not the user's problem")

	failures := ta.failures.Failures()
	assert.Contains(t, failures, "review-admin-relay")
	assert.Contains(t, failures, "review-auto-reply")
}

func TestCreateReviewInsertFailureStopsChain(t *testing.T) {
	ta := newTestApp(t, moderation.Policy{})
	ta.reviews.CreateFn = func(ctx context.Context, review *store.Review) error {
		return errors.New("connection refused")
	}

	rr := ta.do(t, newReviewRequest(t, validReviewForm(), 64))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "connection refused")

	assert.Equal(t, []string{"reviews.Create"}, ta.log.Calls())
	assert.Equal(t, 0, ta.avatars.Calls())
	assert.Empty(t, ta.relay.Sends())
	assert.Empty(t, ta.mailer.Sends())
	assert.Empty(t, ta.events.Events())
}

func TestCreateReviewUploadFailureKeepsRow(t *testing.T) {
	ta := newTestApp(t, moderation.Policy{})
	ta.avatars.err = errors.New("storage unavailable")

	rr := ta.do(t, newReviewRequest(t, validReviewForm(), 64))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)

	// the insert happened and is not compensated; only the patch is skipped
	assert.Equal(t, []string{"reviews.Create"}, ta.log.Calls())
	assert.Empty(t, ta.relay.Sends())
	assert.Empty(t, ta.mailer.Sends())
}

func TestCreateReviewPatchFailureIsFatal(t *testing.T) {
	ta := newTestApp(t, moderation.Policy{})
	ta.reviews.SetAvatarURLFn = func(ctx context.Context, reviewID int64, avatarURL string) error {
		return errors.New("write timeout")
	}

	rr := ta.do(t, newReviewRequest(t, validReviewForm(), 64))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Empty(t, ta.relay.Sends())
	assert.Empty(t, ta.events.Events())
}

func TestGetReviewsListing(t *testing.T) {
	ta := newTestApp(t, moderation.Policy{})

	newer := time.Now()
	older := newer.Add(-time.Hour)
	ta.reviews.GetApprovedFn = func(ctx context.Context) ([]store.Review, error) {
		return []store.Review{
			{ID: 2, Name: "Grace", Rating: 4, Approved: true, CreatedAt: newer},
			{ID: 1, Name: "Ada", Rating: 5, Approved: true, CreatedAt: older},
		}, nil
	}
	ta.replies.GetApprovedForReviewsFn = func(ctx context.Context, reviewIDs []int64) (map[int64][]store.Reply, error) {
		assert.Equal(t, []int64{2, 1}, reviewIDs)
		return map[int64][]store.Reply{
			2: {{ID: 9, ReviewID: 2, Name: "Host", Message: "Thanks!", Approved: true}},
		}, nil
	}
	ta.reviews.StatsFn = func(ctx context.Context) (int, float64, error) {
		return 2, 4.55, nil
	}

	rr := ta.do(t, httptest.NewRequest(http.MethodGet, "/v1/reviews", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	data := decodeData(t, rr)

	reviews, ok := data["reviews"].([]any)
	require.True(t, ok)
	require.Len(t, reviews, 2)

	first := reviews[0].(map[string]any)
	second := reviews[1].(map[string]any)
	assert.EqualValues(t, 2, first["id"], "store order (newest first) passes through untouched")
	assert.EqualValues(t, 1, second["id"])

	replies, ok := first["replies"].([]any)
	require.True(t, ok)
	assert.Len(t, replies, 1)
	_, hasReplies := second["replies"]
	assert.False(t, hasReplies, "empty reply sets are omitted")

	assert.EqualValues(t, 2, data["total_reviews"])
	assert.EqualValues(t, 4.6, data["average"])
}

func TestGetReviewsNeverExposesEmail(t *testing.T) {
	ta := newTestApp(t, moderation.Policy{})
	ta.reviews.GetApprovedFn = func(ctx context.Context) ([]store.Review, error) {
		return []store.Review{{ID: 1, Name: "Ada", Email: "ada@example.com", Approved: true}}, nil
	}

	rr := ta.do(t, httptest.NewRequest(http.MethodGet, "/v1/reviews", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotContains(t, rr.Body.String(), "ada@example.com")
}
