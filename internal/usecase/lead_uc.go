package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/netip"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/phenrril/skinlab/internal/domain"
	"github.com/phenrril/skinlab/internal/i18n"
	"github.com/phenrril/skinlab/internal/metrics"
)

const DefaultMinFillTime = 3 * time.Second

type LeadUC struct {
	Captcha  domain.CaptchaVerifier
	Store    domain.LeadStore
	Notifier domain.LeadNotifier
	// MinFillTime is the shortest plausible time between render and submit.
	MinFillTime time.Duration
	Now         func() time.Time
}

func (uc *LeadUC) now() time.Time {
	if uc.Now != nil {
		return uc.Now()
	}
	return time.Now()
}

// Submit runs one submission through the pipeline:
// received, validated, captcha_verified, persisted, notified, complete.
// The first failing step ends the run; completed steps are not undone.
// The returned lead carries the state it stopped in.
func (uc *LeadUC) Submit(ctx context.Context, form LeadForm, remoteIP string) (*domain.Lead, error) {
	start := uc.now()
	kind := form.Kind()
	lead := form.lead()
	lead.Form = kind
	lead.State = domain.LeadReceived

	err := uc.run(ctx, form, remoteIP, &lead)

	outcome := string(lead.State)
	if !lead.State.Terminal() {
		outcome = "aborted"
	}
	metrics.LeadSubmissionsTotal.WithLabelValues(string(kind), outcome).Inc()
	metrics.LeadPipelineSeconds.WithLabelValues(string(kind)).Observe(uc.now().Sub(start).Seconds())

	ev := log.Info()
	if err != nil {
		ev = log.Warn().Err(err)
	}
	ev.Str("form", string(kind)).Str("lead_id", lead.ID).Str("state", outcome).Msg("lead submission")
	return &lead, err
}

func (uc *LeadUC) run(ctx context.Context, form LeadForm, remoteIP string, lead *domain.Lead) error {
	f := form.Fields()
	if err := uc.checkAutomation(f); err != nil {
		return uc.move(lead, domain.LeadRejected, err)
	}
	if err := validateForm(form); err != nil {
		return uc.move(lead, domain.LeadRejected, err)
	}
	if err := uc.move(lead, domain.LeadValidated, nil); err != nil {
		return err
	}

	if err := uc.Captcha.Verify(ctx, f.CaptchaToken, remoteIP); err != nil {
		return uc.move(lead, domain.LeadRejected, fmt.Errorf("%w: %v", domain.ErrCaptcha, err))
	}
	if err := uc.move(lead, domain.LeadCaptchaVerified, nil); err != nil {
		return err
	}

	now := uc.now()
	lead.ID = NewLeadID(now)
	lead.Timestamp = now.UTC()
	lead.IPHash = AnonymizeIP(remoteIP)
	lead.Locale = i18n.LocaleFromURL(lead.SourceURL)

	if err := uc.step("sheet append", func() error { return uc.Store.AppendLead(ctx, *lead) }); err != nil {
		return uc.move(lead, domain.LeadFailed, err)
	}
	if err := uc.move(lead, domain.LeadPersisted, nil); err != nil {
		return err
	}

	if err := uc.step("confirmation email", func() error { return uc.Notifier.SendConfirmation(ctx, *lead) }); err != nil {
		return uc.move(lead, domain.LeadFailed, err)
	}
	if err := uc.step("notification email", func() error { return uc.Notifier.SendNotification(ctx, *lead) }); err != nil {
		return uc.move(lead, domain.LeadFailed, err)
	}
	if err := uc.move(lead, domain.LeadNotified, nil); err != nil {
		return err
	}
	return uc.move(lead, domain.LeadComplete, nil)
}

// checkAutomation rejects filled honeypots and submissions made too soon
// after the form was rendered. It never says which check fired.
func (uc *LeadUC) checkAutomation(f *LeadFields) error {
	if f.Honeypot != "" {
		log.Debug().Msg("honeypot filled")
		return domain.ErrRejected
	}
	startMs, err := strconv.ParseInt(strings.TrimSpace(f.FormStartTime), 10, 64)
	if err != nil {
		log.Debug().Str("form_start_time", f.FormStartTime).Msg("missing form start time")
		return domain.ErrRejected
	}
	minFill := uc.MinFillTime
	if minFill <= 0 {
		minFill = DefaultMinFillTime
	}
	if uc.now().Sub(time.UnixMilli(startMs)) <= minFill {
		log.Debug().Int64("form_start_time", startMs).Msg("form filled too fast")
		return domain.ErrRejected
	}
	return nil
}

// step runs one downstream call. An unconfigured collaborator is skipped.
func (uc *LeadUC) step(name string, fn func() error) error {
	err := fn()
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrNotConfigured) {
		log.Warn().Str("step", name).Msg("not configured, skipping")
		return nil
	}
	return fmt.Errorf("%w: %s: %v", domain.ErrDownstream, name, err)
}

// move records a state transition and passes cause through.
func (uc *LeadUC) move(lead *domain.Lead, next domain.LeadState, cause error) error {
	s, err := lead.State.Transition(next)
	if err != nil {
		return err
	}
	lead.State = s
	return cause
}

// NewLeadID is SL-<base36 unix millis>-<6 random chars>, uppercased.
func NewLeadID(now time.Time) string {
	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	return strings.ToUpper("SL-" + strconv.FormatInt(now.UnixMilli(), 36) + "-" + random)
}

// AnonymizeIP zeroes the last IPv4 octet, or the last five IPv6 groups.
// Anything that does not parse becomes "unknown".
func AnonymizeIP(raw string) string {
	addr, err := netip.ParseAddr(strings.TrimSpace(raw))
	if err != nil {
		return "unknown"
	}
	addr = addr.Unmap()
	if addr.Is4() {
		b := addr.As4()
		b[3] = 0
		return netip.AddrFrom4(b).String()
	}
	b := addr.As16()
	return fmt.Sprintf("%x:%x:%x:0:0:0:0:0",
		uint16(b[0])<<8|uint16(b[1]),
		uint16(b[2])<<8|uint16(b[3]),
		uint16(b[4])<<8|uint16(b[5]))
}
