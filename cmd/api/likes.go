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

// likeReviewHandler godoc
//
//	@Summary		Like a review
//	@Description	Reads the stored count and writes count+1 back, returning the stored result. Two concurrent sessions can last-writer-win; every connected widget converges on the broadcast value afterwards.
//	@Tags			reviews
//	@Produce		json
//	@Success		200	{object}	map[string]interface{}
//	@Failure		404	{object}	error
//	@Failure		500	{object}	error
//	@Router			/reviews/{reviewID}/like [post]
func (app *application) likeReviewHandler(w http.ResponseWriter, r *http.Request) {
	reviewID, err := strconv.ParseInt(chi.URLParam(r, "reviewID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid review ID"))
		return
	}

	// Read-increment-write against the authoritative count, not whatever
	// the caller was displaying.
	likes, err := app.store.Reviews.GetLikes(r.Context(), reviewID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	newLikes := likes + 1
	if err := app.store.Reviews.SetLikes(r.Context(), reviewID, newLikes); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.invalidateListingCache(context.Background())

	// Authoritative correction for every subscribed widget, including the
	// one that just clicked.
	app.events.Publish(realtime.EventReviewUpdated, map[string]any{
		"id":    reviewID,
		"likes": newLikes,
	})

	app.jsonResponse(w, http.StatusOK, map[string]any{
		"id":    reviewID,
		"likes": newLikes,
	})
}
