package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"mime/multipart"
	"net/http"
	"strings"

	"folio/internal/mailer"
	"folio/internal/realtime"
	"folio/internal/store"
)

const maxAvatarBytes = 2 * 1024 * 1024 // 2 MiB

// relayNotifier forwards submission details to the admin inbox endpoint.
type relayNotifier interface {
	Send(ctx context.Context, fields map[string]string) error
}

type createReviewPayload struct {
	Name         string `json:"name" validate:"required,max=100"`
	Email        string `json:"email" validate:"required,email"`
	Rating       int    `json:"rating" validate:"required,min=1,max=5"`
	Message      string `json:"message" validate:"required,max=1000"`
	CaptchaToken string `json:"captcha_token"`
}

// createReviewHandler godoc
//
//	@Summary		Submit a review
//	@Description	Multipart form: a "review" JSON part plus an "avatar" image part (max 2 MiB). Requires a solved captcha token.
//	@Tags			reviews
//	@Accept			mpfd
//	@Produce		json
//	@Success		201	{object}	store.Review
//	@Failure		400	{object}	error	"validation failed"
//	@Failure		422	{object}	error	"captcha missing or rejected"
//	@Failure		500	{object}	error
//	@Router			/reviews [post]
func (app *application) createReviewHandler(w http.ResponseWriter, r *http.Request) {
	payload, avatar, err := app.parseReviewForm(w, r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	// Local validation never touches the captcha service or any adapter.
	if payload.CaptchaToken == "" {
		app.unprocessableEntityResponse(w, r, errors.New("captcha challenge not solved"))
		return
	}
	if err := app.captcha.Verify(r.Context(), payload.CaptchaToken, r.RemoteAddr); err != nil {
		app.unprocessableEntityResponse(w, r, err)
		return
	}

	review := &store.Review{
		Name:     payload.Name,
		Email:    payload.Email,
		Rating:   payload.Rating,
		Message:  payload.Message,
		Approved: app.policy.ApproveReviewOnCreate(),
	}

	// Step 1: insert. Fatal on failure, nothing else runs.
	if err := app.store.Reviews.Create(r.Context(), review); err != nil {
		app.adapterErrorResponse(w, r, err)
		return
	}

	// Step 2: upload the avatar keyed by the new id. Fatal, but the review
	// row stays: the lead is captured even when the image is lost.
	file, err := avatar.Open()
	if err != nil {
		app.adapterErrorResponse(w, r, fmt.Errorf("open avatar: %w", err))
		return
	}
	defer file.Close()

	avatarURL, err := app.avatars.Upload(r.Context(), file, review.ID)
	if err != nil {
		app.logger.Errorw("review persisted without avatar", "review_id", review.ID, "error", err)
		app.adapterErrorResponse(w, r, err)
		return
	}

	// Step 3: patch the row with the avatar URL. Fatal for symmetry with
	// the upload.
	if err := app.store.Reviews.SetAvatarURL(r.Context(), review.ID, avatarURL); err != nil {
		app.adapterErrorResponse(w, r, err)
		return
	}
	review.AvatarURL = &avatarURL

	// Steps 4-5: best-effort notifications. Failures are reported, never
	// surfaced, and do not block the success response.
	app.notifyReviewSubmitted(review)

	if review.Approved {
		app.invalidateListingCache(context.Background())
		app.events.Publish(realtime.EventReviewCreated, review)
	}

	app.jsonResponse(w, http.StatusCreated, review)
}

func (app *application) parseReviewForm(w http.ResponseWriter, r *http.Request) (*createReviewPayload, *multipart.FileHeader, error) {
	// Cap well above the avatar limit so an oversized image reaches the
	// dedicated size check below instead of a generic parse failure.
	const maxBytes = 3 * maxAvatarBytes
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	if err := r.ParseMultipartForm(maxBytes); err != nil {
		return nil, nil, fmt.Errorf("parse form: %w", err)
	}

	var payload createReviewPayload
	if err := readJSONString(r.FormValue("review"), &payload); err != nil {
		return nil, nil, fmt.Errorf("review payload: %w", err)
	}

	if err := Validate.Struct(payload); err != nil {
		return nil, nil, err
	}

	files := r.MultipartForm.File["avatar"]
	if len(files) != 1 {
		return nil, nil, errors.New("exactly one avatar image is required")
	}

	avatar := files[0]
	if avatar.Size > maxAvatarBytes {
		return nil, nil, errors.New("avatar image must be 2 MB or smaller")
	}
	if !strings.HasPrefix(avatar.Header.Get("Content-Type"), "image/") {
		return nil, nil, errors.New("avatar must be an image")
	}

	return &payload, avatar, nil
}

func (app *application) notifyReviewSubmitted(review *store.Review) {
	name, email := review.Name, review.Email
	rating, message := review.Rating, review.Message
	reviewID, published := review.ID, review.Approved

	app.backgroundTask("review-admin-relay", func() error {
		return app.relay.Send(context.Background(), map[string]string{
			"subject": fmt.Sprintf("New review #%d", reviewID),
			"name":    name,
			"rating":  fmt.Sprintf("%d", rating),
			"message": message,
		})
	})

	app.backgroundTask("review-auto-reply", func() error {
		vars := struct {
			Username  string
			Published bool
		}{
			Username:  name,
			Published: published,
		}
		status, err := app.mailer.Send(mailer.ReviewConfirmationTmpl, name, email, vars)
		if err != nil {
			return err
		}
		app.logger.Infow("auto-reply sent", "review_id", reviewID, "status code", status)
		return nil
	})

	if !published && app.config.mail.adminEmail != "" {
		app.backgroundTask("review-pending-mail", func() error {
			vars := struct {
				ReviewID int64
				Name     string
				Rating   int
				Message  string
			}{
				ReviewID: reviewID,
				Name:     name,
				Rating:   rating,
				Message:  message,
			}
			_, err := app.mailer.Send(mailer.ReviewPendingAdminTmpl, "admin", app.config.mail.adminEmail, vars)
			return err
		})
	}
}

// getReviewsHandler godoc
//
//	@Summary		Public review listing
//	@Description	Approved reviews only, newest first, with their approved replies nested and aggregate stats.
//	@Tags			reviews
//	@Produce		json
//	@Success		200	{object}	map[string]interface{}
//	@Failure		500	{object}	error
//	@Router			/reviews [get]
func (app *application) getReviewsHandler(w http.ResponseWriter, r *http.Request) {
	reviews, err := app.getApprovedListing(r.Context())
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	total, average, err := app.store.Reviews.Stats(r.Context())
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	response := map[string]interface{}{
		"reviews":       reviews,
		"total_reviews": total,
		"average":       math.Round(average*10) / 10,
	}

	app.jsonResponse(w, http.StatusOK, response)
}

// getApprovedListing serves from the redis cache when it is enabled and
// warm, falling back to postgres and repopulating on a miss.
func (app *application) getApprovedListing(ctx context.Context) ([]store.Review, error) {
	if app.cacheStorage.Listing != nil {
		cached, err := app.cacheStorage.Listing.Get(ctx)
		if err != nil {
			app.logger.Warnw("listing cache read failed", "error", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	reviews, err := app.store.Reviews.GetApproved(ctx)
	if err != nil {
		return nil, err
	}

	reviewIDs := make([]int64, len(reviews))
	for i, review := range reviews {
		reviewIDs[i] = review.ID
	}

	replies, err := app.store.Replies.GetApprovedForReviews(ctx, reviewIDs)
	if err != nil {
		return nil, err
	}
	for i := range reviews {
		reviews[i].Replies = replies[reviews[i].ID]
	}

	if app.cacheStorage.Listing != nil {
		if err := app.cacheStorage.Listing.Set(ctx, reviews); err != nil {
			app.logger.Warnw("listing cache write failed", "error", err)
		}
	}

	return reviews, nil
}

func (app *application) invalidateListingCache(ctx context.Context) {
	if app.cacheStorage.Listing == nil {
		return
	}
	if err := app.cacheStorage.Listing.Invalidate(ctx); err != nil {
		app.logger.Warnw("listing cache invalidation failed", "error", err)
	}
}
