package mailer

import (
	"bytes"
	"errors"
	"html/template"
	"net/http"

	gomail "gopkg.in/mail.v2"
)

type smtpMailer struct {
	dialer    *gomail.Dialer
	fromEmail string
}

func NewSMTPClient(host string, port int, username, password, fromEmail string) (Client, error) {
	if host == "" || username == "" || password == "" {
		return nil, errors.New("smtp credentials are not configured")
	}

	dialer := gomail.NewDialer(host, port, username, password)

	return &smtpMailer{
		dialer:    dialer,
		fromEmail: fromEmail,
	}, nil
}

// Send renders the embedded template's subject and body blocks and delivers
// the message. The returned status mirrors an HTTP code so call sites can
// log it uniformly.
func (m *smtpMailer) Send(templateFile, username, email string, data any) (int, error) {
	tmpl, err := template.ParseFS(FS, "templates/"+templateFile)
	if err != nil {
		return -1, err
	}

	subject := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(subject, "subject", data); err != nil {
		return -1, err
	}

	body := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(body, "body", data); err != nil {
		return -1, err
	}

	message := gomail.NewMessage()
	message.SetHeader("From", message.FormatAddress(m.fromEmail, FromName))
	message.SetHeader("To", email)
	message.SetHeader("Subject", subject.String())
	message.SetBody("text/html", body.String())

	if err := m.dialer.DialAndSend(message); err != nil {
		return -1, err
	}

	return http.StatusOK, nil
}
