package httpserver

import (
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/phenrril/skinlab/internal/domain"
	"github.com/phenrril/skinlab/internal/usecase"
)

const (
	maxFormMemory = 1 << 20

	msgSuccess    = "Köszönjük! Hamarosan felvesszük Önnel a kapcsolatot."
	msgInvalid    = "Kérjük, ellenőrizze a megadott adatokat."
	msgCaptcha    = "Kérjük, végezze el újra a CAPTCHA ellenőrzést."
	msgCaptchaFld = "CAPTCHA ellenőrzés sikertelen"
	msgDownstream = "Hiba történt a küldés során."
	msgUnexpected = "Váratlan hiba történt. Kérjük, próbálja újra később."
)

func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	s.submit(w, r, &usecase.ContactForm{})
}

func (s *Server) handleConsultation(w http.ResponseWriter, r *http.Request) {
	s.submit(w, r, &usecase.ConsultationForm{})
}

func (s *Server) submit(w http.ResponseWriter, r *http.Request, form usecase.LeadForm) {
	w.Header().Set("Cache-Control", "no-store")
	if err := s.decodeForm(w, r, form); err != nil {
		log.Debug().Err(err).Str("form", string(form.Kind())).Msg("form decode")
		writeJSONError(w, http.StatusBadRequest, msgInvalid)
		return
	}

	lead, err := s.leads.Submit(r.Context(), form, clientIP(r))
	if err == nil {
		writeJSON(w, http.StatusOK, submitResponse{Success: true, LeadID: lead.ID, Message: msgSuccess})
		return
	}

	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, submitResponse{Errors: verr.Fields, Error: msgInvalid})
	case errors.Is(err, domain.ErrRejected):
		writeJSONError(w, http.StatusBadRequest, msgInvalid)
	case errors.Is(err, domain.ErrCaptcha):
		writeJSON(w, http.StatusBadRequest, submitResponse{
			Errors: map[string][]string{"cf-turnstile-response": {msgCaptchaFld}},
			Error:  msgCaptcha,
		})
	case errors.Is(err, domain.ErrDownstream):
		writeJSONError(w, http.StatusInternalServerError, msgDownstream)
	default:
		log.Error().Err(err).Str("form", string(form.Kind())).Msg("lead submission")
		writeJSONError(w, http.StatusInternalServerError, msgUnexpected)
	}
}

// decodeForm fills form from a multipart or urlencoded body.
func (s *Server) decodeForm(w http.ResponseWriter, r *http.Request, form usecase.LeadForm) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormMemory)
	ct := r.Header.Get("Content-Type")
	var err error
	if strings.HasPrefix(ct, "multipart/form-data") {
		err = r.ParseMultipartForm(maxFormMemory)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		return err
	}
	values := r.PostForm
	if r.MultipartForm != nil {
		values = r.MultipartForm.Value
	}
	return s.decoder.Decode(form, values)
}

// clientIP is the peer address, as rewritten by the proxy middleware when
// proxy headers are trusted.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
