package notification

import (
	"errors"
	"strings"
)

var (
	ErrNoRecipients     = errors.New("notification has no recipients")
	ErrSubjectRequired  = errors.New("notification subject is required")
	ErrTemplateRequired = errors.New("notification template is required")
)

// Envelope is who receives a notification and under which subject.
type Envelope struct {
	To      []string
	Subject string
}

// Content names the template to render and the data handed to it.
type Content struct {
	View string
	With any
}

// UserNotify is a queued email notification to users.
// It only carries data; rendering and delivery happen in the Queue.
type UserNotify struct {
	Recipients []string
	Subject    string
	Template   string
	Data       any
}

// NewUserNotify assembles a notification, dropping blank recipients.
func NewUserNotify(recipients []string, subject, template string, data any) *UserNotify {
	to := make([]string, 0, len(recipients))
	for _, r := range recipients {
		if r = strings.TrimSpace(r); r != "" {
			to = append(to, r)
		}
	}
	return &UserNotify{
		Recipients: to,
		Subject:    subject,
		Template:   template,
		Data:       data,
	}
}

func (n *UserNotify) Envelope() Envelope {
	return Envelope{To: n.Recipients, Subject: n.Subject}
}

func (n *UserNotify) Content() Content {
	return Content{View: n.Template, With: n.Data}
}

// Validate rejects notifications that could never be delivered.
func (n *UserNotify) Validate() error {
	switch {
	case len(n.Recipients) == 0:
		return ErrNoRecipients
	case strings.TrimSpace(n.Subject) == "":
		return ErrSubjectRequired
	case strings.TrimSpace(n.Template) == "":
		return ErrTemplateRequired
	}
	return nil
}
