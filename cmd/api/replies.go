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

type createReplyPayload struct {
	Name    string `json:"name" validate:"required,max=100"`
	Message string `json:"message" validate:"required,max=1000"`
}

// createReplyHandler godoc
//
//	@Summary		Reply to a review
//	@Description	Inserts a reply, held or published per moderation policy. The caller gets a static acknowledgment; the reply reaches listings via refresh or the realtime feed.
//	@Tags			reviews
//	@Accept			json
//	@Produce		json
//	@Param			reply	body		createReplyPayload	true	"Reply payload"
//	@Success		201		{object}	store.Reply
//	@Failure		400		{object}	error
//	@Failure		404		{object}	error
//	@Failure		500		{object}	error
//	@Router			/reviews/{reviewID}/replies [post]
func (app *application) createReplyHandler(w http.ResponseWriter, r *http.Request) {
	reviewID, err := strconv.ParseInt(chi.URLParam(r, "reviewID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid review ID"))
		return
	}

	var payload createReplyPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if _, err := app.store.Reviews.GetByID(r.Context(), reviewID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	reply := &store.Reply{
		ReviewID: reviewID,
		Name:     payload.Name,
		Message:  payload.Message,
		Approved: app.policy.ApproveReplyOnCreate(),
	}

	if err := app.store.Replies.Create(r.Context(), reply); err != nil {
		app.adapterErrorResponse(w, r, err)
		return
	}

	// Only published replies hit the feed; a pending one would leak
	// moderation-gated content to every subscriber.
	if reply.Approved {
		app.invalidateListingCache(context.Background())
		app.events.Publish(realtime.EventReplyCreated, reply)
	}

	app.jsonResponse(w, http.StatusCreated, map[string]any{
		"message": "thanks, your reply has been received",
		"reply":   reply,
	})
}
