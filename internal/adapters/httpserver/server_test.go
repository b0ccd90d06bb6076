package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phenrril/skinlab/internal/domain"
	"github.com/phenrril/skinlab/internal/usecase"
)

type stubLeads struct {
	err  error
	form usecase.LeadForm
	ip   string
}

func (s *stubLeads) Submit(_ context.Context, form usecase.LeadForm, ip string) (*domain.Lead, error) {
	s.form, s.ip = form, ip
	return &domain.Lead{ID: "SL-TEST-ABCDEF"}, s.err
}

func newTestServer(t *testing.T, leads LeadSubmitter, limit int) *Server {
	t.Helper()
	s := New(leads, Options{AllowedOrigins: []string{"https://skinlabhungary.hu"}, RateLimit: limit})
	t.Cleanup(s.Close)
	return s
}

func formBody() url.Values {
	return url.Values{
		"name":                  {"Kovács Anna"},
		"email":                 {"anna@example.com"},
		"phone":                 {"+36 70 413 6819"},
		"product":               {"diodalezerek"},
		"message":               {"Érdekel"},
		"gdprConsent":           {"true"},
		"cf-turnstile-response": {"tok"},
		"sourceUrl":             {"https://skinlabhungary.hu/kapcsolat"},
		"formStartTime":         {"1714557600000"},
		"unknownField":          {"ignored"},
	}
}

func post(s http.Handler, path string, body url.Values) (*httptest.ResponseRecorder, submitResponse) {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.RemoteAddr = "203.0.113.42:5555"
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	var out submitResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	return rec, out
}

func TestContactSuccess(t *testing.T) {
	leads := &stubLeads{}
	s := newTestServer(t, leads, 0)

	rec, out := post(s, "/api/contact", formBody())
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, out.Success)
	assert.Equal(t, "SL-TEST-ABCDEF", out.LeadID)
	assert.Equal(t, msgSuccess, out.Message)
	assert.Equal(t, "203.0.113.42", leads.ip)

	form, ok := leads.form.(*usecase.ContactForm)
	require.True(t, ok)
	assert.Equal(t, "Kovács Anna", form.Name)
	assert.Equal(t, "tok", form.CaptchaToken)
	assert.Equal(t, "Érdekel", form.Message)
	assert.Equal(t, "1714557600000", form.FormStartTime)
}

func TestConsultationMultipart(t *testing.T) {
	leads := &stubLeads{}
	s := New(leads, Options{TrustProxyHeaders: true})
	t.Cleanup(s.Close)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range formBody() {
		require.NoError(t, mw.WriteField(k, v[0]))
	}
	require.NoError(t, mw.WriteField("timeline", "asap"))
	require.NoError(t, mw.WriteField("experience", "beginner"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/consultation", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("CF-Connecting-IP", "198.51.100.7")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	form, ok := leads.form.(*usecase.ConsultationForm)
	require.True(t, ok)
	assert.Equal(t, "asap", form.Timeline)
	assert.Equal(t, "beginner", form.Experience)
	assert.Equal(t, "anna@example.com", form.Email)
	assert.Equal(t, "198.51.100.7", leads.ip)
}

func TestSubmitErrorMapping(t *testing.T) {
	verr := &domain.ValidationError{}
	verr.Add("email", "Érvényes email cím szükséges")

	tests := []struct {
		name   string
		err    error
		code   int
		msg    string
		fields map[string][]string
	}{
		{"validation", verr, 400, msgInvalid, verr.Fields},
		{"rejected", domain.ErrRejected, 400, msgInvalid, nil},
		{"captcha", fmt.Errorf("%w: bad token", domain.ErrCaptcha), 400, msgCaptcha, map[string][]string{"cf-turnstile-response": {msgCaptchaFld}}},
		{"downstream", fmt.Errorf("%w: sheets", domain.ErrDownstream), 500, msgDownstream, nil},
		{"unexpected", errors.New("boom"), 500, msgUnexpected, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, &stubLeads{err: tt.err}, 0)
			rec, out := post(s, "/api/contact", formBody())
			assert.Equal(t, tt.code, rec.Code)
			assert.False(t, out.Success)
			assert.Equal(t, tt.msg, out.Error)
			assert.Equal(t, tt.fields, out.Errors)
			assert.Empty(t, out.LeadID)
		})
	}
}

func TestGetNotAllowed(t *testing.T) {
	s := newTestServer(t, &stubLeads{}, 0)
	for path, want := range map[string]string{
		"/api/contact":      "Method not allowed. Use POST to submit contact form.",
		"/api/consultation": "Method not allowed. Use POST to submit consultation form.",
	} {
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code, path)
		assert.Equal(t, "POST", rec.Header().Get("Allow"))
		var out submitResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
		assert.Equal(t, want, out.Error)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t, &stubLeads{}, 0)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	post(s, "/api/contact", formBody())
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `skinlab_http_requests_total{method="POST",route="/api/contact",status="200"}`)
}

func TestCORS(t *testing.T) {
	s := newTestServer(t, &stubLeads{}, 0)
	req := httptest.NewRequest(http.MethodOptions, "/api/contact", nil)
	req.Header.Set("Origin", "https://skinlabhungary.hu")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	assert.Equal(t, "https://skinlabhungary.hu", rec.Header().Get("Access-Control-Allow-Origin"))

	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, &stubLeads{}, 2)
	for i := 0; i < 2; i++ {
		rec, _ := post(s, "/api/contact", formBody())
		assert.Equal(t, http.StatusOK, rec.Code)
	}
	rec, out := post(s, "/api/contact", formBody())
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.False(t, out.Success)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	health := httptest.NewRecorder()
	s.ServeHTTP(health, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, health.Code, "only /api is limited")
}

func TestProxyHeadersIgnoredUnlessTrusted(t *testing.T) {
	leads := &stubLeads{}
	s := newTestServer(t, leads, 2)

	codes := []int{}
	for i, ip := range []string{"198.51.100.1", "198.51.100.2", "198.51.100.3"} {
		req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(formBody().Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("CF-Connecting-IP", ip)
		req.Header.Set("X-Forwarded-For", ip)
		req.RemoteAddr = "203.0.113.42:" + strconv.Itoa(5000+i)
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	assert.Equal(t, "203.0.113.42", leads.ip)
}

func TestCloudflareIPSkipsInvalidHeader(t *testing.T) {
	var got string
	h := CloudflareIP(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) { got = r.RemoteAddr }))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.42:5555"
	req.Header.Set("CF-Connecting-IP", "not-an-ip")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "203.0.113.42:5555", got)

	req.Header.Set("CF-Connecting-IP", " 2001:db8::7 ")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "2001:db8::7", got)
}

func TestFixedWindowLimiter(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	rl := NewFixedWindowLimiter(2, time.Minute)
	defer rl.Stop()
	rl.now = func() time.Time { return now }

	ok, _ := rl.Allow("a")
	assert.True(t, ok)
	ok, _ = rl.Allow("a")
	assert.True(t, ok)
	ok, retry := rl.Allow("a")
	assert.False(t, ok)
	assert.Equal(t, time.Minute, retry)

	ok, _ = rl.Allow("b")
	assert.True(t, ok, "clients are counted separately")

	now = now.Add(61 * time.Second)
	ok, _ = rl.Allow("a")
	assert.True(t, ok, "a new window starts")
}

func TestRecovery(t *testing.T) {
	h := Recovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), msgUnexpected)
}
