package main

import (
	"context"
	"fmt"
	"net/http"

	"folio/internal/mailer"
	"folio/internal/store"
)

const enquiryAccepted = "Message sent securely! I'll reply within 24 hours."

type createEnquiryPayload struct {
	Name    string `json:"name" validate:"required,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Service string `json:"service" validate:"max=100"`
	Message string `json:"message" validate:"required,max=2000"`
	// Hidden field on the form; humans never fill it.
	Honeypot string `json:"honeypot"`
}

// createEnquiryHandler godoc
//
//	@Summary		Submit an enquiry
//	@Description	Stores the lead, then notifies the admin inbox and acknowledges the sender best-effort. Honeypot submissions are accepted and dropped.
//	@Tags			enquiries
//	@Accept			json
//	@Produce		json
//	@Param			enquiry	body		createEnquiryPayload	true	"Enquiry payload"
//	@Success		201		{object}	map[string]string
//	@Failure		400		{object}	error
//	@Failure		500		{object}	error
//	@Router			/enquiries [post]
func (app *application) createEnquiryHandler(w http.ResponseWriter, r *http.Request) {
	var payload createEnquiryPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	// Bots that filled the hidden field get a success response and
	// nothing else.
	if payload.Honeypot != "" {
		app.jsonResponse(w, http.StatusCreated, map[string]string{"message": enquiryAccepted})
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	enquiry := &store.Enquiry{
		Name:    payload.Name,
		Email:   payload.Email,
		Service: payload.Service,
		Message: payload.Message,
	}

	// Storing the lead is the only fatal step; everything after is
	// best-effort because the lead is already captured.
	if err := app.store.Enquiries.Create(r.Context(), enquiry); err != nil {
		app.adapterErrorResponse(w, r, err)
		return
	}

	reference, err := app.refEncoder.EncodeInt64([]int64{enquiry.ID})
	if err != nil {
		app.logger.Errorw("enquiry reference encoding failed", "enquiry_id", enquiry.ID, "error", err)
	} else {
		enquiry.Reference = reference
		if err := app.store.Enquiries.SetReference(r.Context(), enquiry.ID, reference); err != nil {
			app.logger.Errorw("enquiry reference write failed", "enquiry_id", enquiry.ID, "error", err)
		}
	}

	app.notifyEnquirySubmitted(enquiry)

	app.jsonResponse(w, http.StatusCreated, map[string]string{
		"message":   enquiryAccepted,
		"reference": enquiry.Reference,
	})
}

func (app *application) notifyEnquirySubmitted(enquiry *store.Enquiry) {
	name, email := enquiry.Name, enquiry.Email
	service, message := enquiry.Service, enquiry.Message
	reference := enquiry.Reference

	app.backgroundTask("enquiry-admin-relay", func() error {
		return app.relay.Send(context.Background(), map[string]string{
			"subject":   fmt.Sprintf("New enquiry %s", reference),
			"name":      name,
			"email":     email,
			"service":   service,
			"message":   message,
			"reference": reference,
		})
	})

	app.backgroundTask("enquiry-acknowledgement", func() error {
		vars := struct {
			Username  string
			Reference string
		}{
			Username:  name,
			Reference: reference,
		}
		_, err := app.mailer.Send(mailer.EnquiryAcknowledgeTmpl, name, email, vars)
		return err
	})
}
