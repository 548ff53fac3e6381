// Package mailer sends transactional email over SMTP.
package mailer

import (
	"fmt"
	"html"

	"gopkg.in/gomail.v2"
)

// Config holds the SMTP connection settings and sender identity.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	// AppBaseURL is the public URL of the frontend, used to build the link
	// to the shared note.
	AppBaseURL string
}

// Mailer renders and sends the application's emails.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
	appURL string
}

func New(cfg Config) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
		appURL: cfg.AppBaseURL,
	}
}

// SendShareNotification emails toEmail that fromName shared a note with them.
func (m *Mailer) SendShareNotification(toEmail, fromName, fromEmail, noteID, noteTitle string) error {
	if fromName == "" {
		fromName = fromEmail
	}
	if fromName == "" {
		fromName = "Someone"
	}
	if noteTitle == "" {
		noteTitle = "Untitled note"
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", toEmail)
	msg.SetHeader("Subject", fmt.Sprintf("%s shared a note with you", fromName))
	msg.SetBody("text/html", shareNotificationBody(fromName, noteTitle, m.appURL, noteID))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send share notification to %s: %w", toEmail, err)
	}
	return nil
}

// shareNotificationBody renders the HTML body. Sender name and note title are
// user-controlled and must not end up in the mail client as markup.
func shareNotificationBody(fromName, noteTitle, appURL, noteID string) string {
	return fmt.Sprintf(
		`<p>%s shared the note <strong>%s</strong> with you.</p>
<p><a href="%s/notes/%s">Open the note</a> to start reading or editing together.</p>`,
		html.EscapeString(fromName), html.EscapeString(noteTitle),
		appURL, html.EscapeString(noteID),
	)
}
