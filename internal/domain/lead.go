package domain

import (
	"context"
	"fmt"
	"time"
)

type FormKind string

const (
	FormContact      FormKind = "contact"
	FormConsultation FormKind = "consultation"
)

type LeadState string

const (
	LeadReceived        LeadState = "received"
	LeadValidated       LeadState = "validated"
	LeadCaptchaVerified LeadState = "captcha_verified"
	LeadPersisted       LeadState = "persisted"
	LeadNotified        LeadState = "notified"
	LeadComplete        LeadState = "complete"
	LeadRejected        LeadState = "rejected"
	LeadFailed          LeadState = "failed"
)

var leadTransitions = map[LeadState][]LeadState{
	LeadReceived:        {LeadValidated, LeadRejected},
	LeadValidated:       {LeadCaptchaVerified, LeadRejected},
	LeadCaptchaVerified: {LeadPersisted, LeadFailed},
	LeadPersisted:       {LeadNotified, LeadFailed},
	LeadNotified:        {LeadComplete, LeadFailed},
}

func (s LeadState) Terminal() bool {
	return s == LeadComplete || s == LeadRejected || s == LeadFailed
}

// Transition returns next when the move is allowed from s.
func (s LeadState) Transition(next LeadState) (LeadState, error) {
	for _, allowed := range leadTransitions[s] {
		if allowed == next {
			return next, nil
		}
	}
	return s, fmt.Errorf("lead state %s -> %s not allowed", s, next)
}

type Lead struct {
	ID            string
	Form          FormKind
	State         LeadState
	Timestamp     time.Time
	Locale        string
	Name          string
	Email         string
	Phone         string
	Product       string
	Message       string
	SourceURL     string
	IPHash        string
	GDPRConsent   bool
	GDPRTimestamp string
	UTMSource     string
	UTMMedium     string
	UTMCampaign   string

	Timeline     string
	BusinessType string
	Experience   string
}

type CaptchaVerifier interface {
	Verify(ctx context.Context, token, remoteIP string) error
}

type LeadStore interface {
	AppendLead(ctx context.Context, l Lead) error
}

type LeadNotifier interface {
	SendConfirmation(ctx context.Context, l Lead) error
	SendNotification(ctx context.Context, l Lead) error
}
