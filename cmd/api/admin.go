package main

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"folio/internal/realtime"
	"folio/internal/store"

	"github.com/go-chi/chi/v5"
)

// getPendingReviewsHandler godoc
//
//	@Summary		List reviews awaiting moderation
//	@Tags			admin
//	@Produce		json
//	@Success		200	{array}	store.Review
//	@Security		BasicAuth
//	@Router			/admin/reviews/pending [get]
func (app *application) getPendingReviewsHandler(w http.ResponseWriter, r *http.Request) {
	reviews, err := app.store.Reviews.GetPending(r.Context())
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, reviews)
}

// approveReviewHandler godoc
//
//	@Summary		Approve a pending review
//	@Description	Flips the visibility gate and announces the review on the realtime feed.
//	@Tags			admin
//	@Produce		json
//	@Success		200	{object}	store.Review
//	@Failure		404	{object}	error
//	@Security		BasicAuth
//	@Router			/admin/reviews/{reviewID}/approve [patch]
func (app *application) approveReviewHandler(w http.ResponseWriter, r *http.Request) {
	reviewID, err := strconv.ParseInt(chi.URLParam(r, "reviewID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid review ID"))
		return
	}

	if err := app.store.Reviews.Approve(r.Context(), reviewID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	review, err := app.store.Reviews.GetByID(r.Context(), reviewID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.invalidateListingCache(context.Background())
	app.events.Publish(realtime.EventReviewCreated, review)

	app.jsonResponse(w, http.StatusOK, review)
}

// getPendingRepliesHandler godoc
//
//	@Summary		List replies awaiting moderation
//	@Tags			admin
//	@Produce		json
//	@Success		200	{array}	store.Reply
//	@Security		BasicAuth
//	@Router			/admin/replies/pending [get]
func (app *application) getPendingRepliesHandler(w http.ResponseWriter, r *http.Request) {
	replies, err := app.store.Replies.GetPending(r.Context())
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, replies)
}

// approveReplyHandler godoc
//
//	@Summary		Approve a pending reply
//	@Tags			admin
//	@Produce		json
//	@Success		200	{object}	store.Reply
//	@Failure		404	{object}	error
//	@Security		BasicAuth
//	@Router			/admin/replies/{replyID}/approve [patch]
func (app *application) approveReplyHandler(w http.ResponseWriter, r *http.Request) {
	replyID, err := strconv.ParseInt(chi.URLParam(r, "replyID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid reply ID"))
		return
	}

	if err := app.store.Replies.Approve(r.Context(), replyID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	reply, err := app.store.Replies.GetByID(r.Context(), replyID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.invalidateListingCache(context.Background())
	app.events.Publish(realtime.EventReplyCreated, reply)

	app.jsonResponse(w, http.StatusOK, reply)
}

// getEnquiriesHandler godoc
//
//	@Summary		List captured enquiries
//	@Tags			admin
//	@Produce		json
//	@Success		200	{array}	store.Enquiry
//	@Security		BasicAuth
//	@Router			/admin/enquiries [get]
func (app *application) getEnquiriesHandler(w http.ResponseWriter, r *http.Request) {
	enquiries, err := app.store.Enquiries.List(r.Context())
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, enquiries)
}
