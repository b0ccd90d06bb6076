package mail

import (
	"context"
	"fmt"
	"time"

	gomail "gopkg.in/mail.v2"

	"github.com/phenrril/skinlab/internal/domain"
)

// SMTPSender delivers messages through an SMTP relay.
type SMTPSender struct {
	dialer *gomail.Dialer
}

func NewSMTPSender(host string, port int, username, password string) *SMTPSender {
	if host == "" {
		return &SMTPSender{}
	}
	d := gomail.NewDialer(host, port, username, password)
	d.Timeout = 10 * time.Second
	d.StartTLSPolicy = gomail.OpportunisticStartTLS
	return &SMTPSender{dialer: d}
}

func (s *SMTPSender) Send(ctx context.Context, m Message) error {
	if s.dialer == nil {
		return fmt.Errorf("smtp: %w", domain.ErrNotConfigured)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.dialer.DialAndSend(buildMessage(m)); err != nil {
		return fmt.Errorf("smtp: %w", err)
	}
	return nil
}

func buildMessage(m Message) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.From)
	msg.SetHeader("To", m.To...)
	msg.SetHeader("Subject", m.Subject)
	msg.SetBody("text/html", m.HTML)
	return msg
}
