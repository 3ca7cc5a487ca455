package domain

import (
	"context"
	"time"
)

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(ctx context.Context, to, subject, html, text string) error
}

// RenderedEmail is a message body ready to hand to a Mailer.
type RenderedEmail struct {
	Subject string
	HTML    string
	Text    string
}

// AlertRenderer renders operator alert emails.
type AlertRenderer interface {
	RenderFaultAlert(data *FaultAlertData) (*RenderedEmail, error)
}

// FaultAlertData describes an unexpected server-side failure reported to operators.
type FaultAlertData struct {
	Environment string
	Method      string
	Path        string
	Status      int
	RequestID   string
	OccurredAt  time.Time
}

// AlertService notifies operators about server faults. Business rejections are never alerted.
type AlertService interface {
	SendFaultAlert(ctx context.Context, data *FaultAlertData) error
}
