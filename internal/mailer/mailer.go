package mailer

import "embed"

const (
	FromName               = "Folio"
	ReviewConfirmationTmpl = "review_confirmation.tmpl"
	EnquiryAcknowledgeTmpl = "enquiry_acknowledgement.tmpl"
	ReviewPendingAdminTmpl = "review_pending_admin.tmpl"
)

//go:embed "templates"
var FS embed.FS

type Client interface {
	Send(templateFile, username, email string, data any) (int, error)
}
