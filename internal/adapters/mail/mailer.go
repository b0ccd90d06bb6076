package mail

import (
	"context"
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/rs/zerolog/log"

	"github.com/phenrril/skinlab/internal/domain"
	"github.com/phenrril/skinlab/internal/i18n"
)

const (
	companyPhone        = "+36704136819"
	companyPhoneDisplay = "+36 70 413 6819"
	companyLine         = "SkinLab Beauty Equipment Kft. | 2030 Érd, Budai út 28."
)

// Message is one outgoing HTML email.
type Message struct {
	From    string
	To      []string
	Subject string
	HTML    string
}

// Sender delivers a rendered message.
type Sender interface {
	Send(ctx context.Context, m Message) error
}

type Addresses struct {
	Confirmation string
	Notification string
	NotifyTo     string
}

// LeadMailer sends the customer confirmation and the internal notification
// for a lead.
type LeadMailer struct {
	sender Sender
	tr     *i18n.Translator
	addr   Addresses
	loc    *time.Location
}

func NewLeadMailer(sender Sender, tr *i18n.Translator, addr Addresses) *LeadMailer {
	loc, err := time.LoadLocation("Europe/Budapest")
	if err != nil {
		log.Warn().Err(err).Msg("Europe/Budapest zone unavailable, using UTC")
		loc = time.UTC
	}
	return &LeadMailer{sender: sender, tr: tr, addr: addr, loc: loc}
}

type confirmationView struct {
	Lang                string
	Greeting            string
	Thanks              string
	Callback            string
	Phone               string
	SummaryTitle        string
	ProductLabel        string
	Product             string
	MessageLabel        string
	Message             string
	Urgent              string
	CompanyPhone        string
	CompanyPhoneDisplay string
	Automatic           string
	CompanyLine         string
	Reference           string
}

type notificationView struct {
	domain.Lead
	Received string
}

func (m *LeadMailer) SendConfirmation(ctx context.Context, l domain.Lead) error {
	if m.sender == nil {
		return fmt.Errorf("mail: %w", domain.ErrNotConfigured)
	}
	html, subject, err := m.Confirmation(l)
	if err != nil {
		return err
	}
	return m.sender.Send(ctx, Message{
		From:    m.addr.Confirmation,
		To:      []string{l.Email},
		Subject: subject,
		HTML:    html,
	})
}

func (m *LeadMailer) SendNotification(ctx context.Context, l domain.Lead) error {
	if m.sender == nil || m.addr.NotifyTo == "" {
		return fmt.Errorf("mail: %w", domain.ErrNotConfigured)
	}
	html, err := m.Notification(l)
	if err != nil {
		return err
	}
	return m.sender.Send(ctx, Message{
		From:    m.addr.Notification,
		To:      []string{m.addr.NotifyTo},
		Subject: fmt.Sprintf("Új érdeklődő: %s - %s", l.Name, l.Product),
		HTML:    html,
	})
}

// Confirmation renders the customer email in the lead's locale and returns
// the body and subject.
func (m *LeadMailer) Confirmation(l domain.Lead) (string, string, error) {
	loc := l.Locale
	if !i18n.IsSupported(loc) {
		loc = i18n.DefaultLocale
	}
	t := func(key string, params map[string]string) string {
		return m.tr.T(loc, "email.confirmation."+key, params)
	}
	html, err := render(confirmationTemplate, confirmationView{
		Lang:                i18n.HTMLLang(loc),
		Greeting:            t("greeting", map[string]string{"name": l.Name}),
		Thanks:              t("thanks", nil),
		Callback:            t("callback", nil),
		Phone:               l.Phone,
		SummaryTitle:        t("summaryTitle", nil),
		ProductLabel:        t("productLabel", nil),
		Product:             l.Product,
		MessageLabel:        t("messageLabel", nil),
		Message:             l.Message,
		Urgent:              t("urgent", nil),
		CompanyPhone:        companyPhone,
		CompanyPhoneDisplay: companyPhoneDisplay,
		Automatic:           t("automatic", nil),
		CompanyLine:         companyLine,
		Reference:           t("reference", map[string]string{"leadId": l.ID}),
	})
	if err != nil {
		return "", "", fmt.Errorf("render confirmation: %w", err)
	}
	return html, t("subject", nil), nil
}

// Notification renders the internal email with the receive time in
// Budapest local time.
func (m *LeadMailer) Notification(l domain.Lead) (string, error) {
	html, err := render(notificationTemplate, notificationView{
		Lead:     l,
		Received: l.Timestamp.In(m.loc).Format("2006. 01. 02. 15:04:05"),
	})
	if err != nil {
		return "", fmt.Errorf("render notification: %w", err)
	}
	return html, nil
}
