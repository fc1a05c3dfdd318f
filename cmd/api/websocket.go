package main

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // the feed is public, same as the listing it mirrors
	},
}

// websocketHandler godoc
//
//	@Summary		Realtime change feed
//	@Description	Upgrades to a websocket that streams review.created, review.updated and reply.created events for the page lifetime.
//	@Tags			realtime
//	@Router			/ws [get]
func (app *application) websocketHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		app.logger.Warnw("websocket upgrade failed", "error", err)
		return
	}

	app.hub.Attach(conn, uuid.NewString())
}
