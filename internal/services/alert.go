package services

import (
	"context"
	"fmt"

	"youthevents/internal/domain"
)

type alertService struct {
	mailer    domain.Mailer
	renderer  domain.AlertRenderer
	recipient string
}

// NewAlertService returns an AlertService that mails fault reports to recipient.
// With an empty recipient alerts are dropped.
func NewAlertService(mailer domain.Mailer, renderer domain.AlertRenderer, recipient string) domain.AlertService {
	return &alertService{mailer: mailer, renderer: renderer, recipient: recipient}
}

// SendFaultAlert renders the fault alert and mails it to the operator.
func (s *alertService) SendFaultAlert(ctx context.Context, data *domain.FaultAlertData) error {
	if data == nil {
		return fmt.Errorf("fault alert data is nil")
	}
	if s.recipient == "" {
		return nil
	}
	msg, err := s.renderer.RenderFaultAlert(data)
	if err != nil {
		return fmt.Errorf("render fault alert: %w", err)
	}
	if err := s.mailer.Send(ctx, s.recipient, msg.Subject, msg.HTML, msg.Text); err != nil {
		return fmt.Errorf("send fault alert: %w", err)
	}
	return nil
}
