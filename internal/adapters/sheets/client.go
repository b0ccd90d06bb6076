package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"

	"github.com/phenrril/skinlab/internal/domain"
)

const (
	DefaultEndpoint = "https://sheets.googleapis.com/v4/spreadsheets"
	DefaultRange    = "Kapcsolat!A:N"
	scope           = "https://www.googleapis.com/auth/spreadsheets"
)

// ServiceAccountSource signs JWT assertions for the service account and
// exchanges them at Google's token endpoint.
func ServiceAccountSource(email, privateKey string) oauth2.TokenSource {
	cfg := &jwt.Config{
		Email:      email,
		PrivateKey: []byte(privateKey),
		Scopes:     []string{scope},
		TokenURL:   google.JWTTokenURL,
	}
	return cfg.TokenSource(context.Background())
}

// Client appends rows to one spreadsheet range.
type Client struct {
	spreadsheetID string
	rng           string
	tokens        *TokenCache
	endpoint      string
	http          *http.Client
}

type Option func(*Client)

func WithEndpoint(u string) Option { return func(c *Client) { c.endpoint = u } }

func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.http = h } }

// NewClient returns a client for spreadsheetID. tokens may be nil when no
// service account is configured; appends then report ErrNotConfigured.
func NewClient(spreadsheetID, rng string, tokens oauth2.TokenSource, opts ...Option) *Client {
	if rng == "" {
		rng = DefaultRange
	}
	c := &Client{
		spreadsheetID: spreadsheetID,
		rng:           rng,
		endpoint:      DefaultEndpoint,
		http:          &http.Client{Timeout: 10 * time.Second},
	}
	if tokens != nil {
		c.tokens = NewTokenCache(tokens, DefaultExpiryMargin)
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Client) Configured() bool { return c.spreadsheetID != "" && c.tokens != nil }

type appendRequest struct {
	Values [][]string `json:"values"`
}

// AppendRow adds one row after the last filled row of the range.
func (c *Client) AppendRow(ctx context.Context, row []string) error {
	if !c.Configured() {
		return fmt.Errorf("sheets: %w", domain.ErrNotConfigured)
	}
	tok, err := c.tokens.Token()
	if err != nil {
		return fmt.Errorf("sheets token: %w", err)
	}

	body, err := json.Marshal(appendRequest{Values: [][]string{row}})
	if err != nil {
		return err
	}
	u := fmt.Sprintf("%s/%s/values/%s:append?valueInputOption=USER_ENTERED&insertDataOption=INSERT_ROWS",
		c.endpoint, url.PathEscape(c.spreadsheetID), url.PathEscape(c.rng))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	tok.SetAuthHeader(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("sheets append: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusUnauthorized {
		c.tokens.Invalidate()
	}
	if resp.StatusCode/100 != 2 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("sheets append: status %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}
	return nil
}

func (c *Client) AppendLead(ctx context.Context, l domain.Lead) error {
	return c.AppendRow(ctx, LeadRow(l))
}

// LeadRow lays a lead out as columns A to N.
func LeadRow(l domain.Lead) []string {
	consent := "Nem"
	if l.GDPRConsent {
		consent = "Igen"
	}
	return []string{
		l.ID,
		l.Timestamp.UTC().Format("2006-01-02T15:04:05.000Z"),
		l.Name,
		l.Email,
		l.Phone,
		l.Product,
		l.Message,
		l.SourceURL,
		l.IPHash,
		consent,
		l.GDPRTimestamp,
		l.UTMSource,
		l.UTMMedium,
		l.UTMCampaign,
	}
}
