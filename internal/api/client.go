package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/quizdeck/quizdeck/internal/logging"
)

// CredentialStore is the token surface the client reads and writes. The
// session store implements it.
type CredentialStore interface {
	AccessToken() string
	RefreshToken() string
	SetAccessToken(tok string)
	Clear()
}

// Client issues JSON requests against the quiz platform API. It attaches the
// bearer token to every non-public request and performs a single
// refresh-and-retry when a request comes back 401.
type Client struct {
	baseURL string
	http    *http.Client
	creds   CredentialStore

	// onAuthExpired fires when a refresh attempt fails and the stored
	// credentials have been cleared. The CLI uses it to tell the user to log
	// in again; it is the redirect-to-login of the web client.
	onAuthExpired func()

	log *logging.Logger
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func WithOnAuthExpired(fn func()) Option {
	return func(c *Client) { c.onAuthExpired = fn }
}

func WithLogger(l *logging.Logger) Option {
	return func(c *Client) { c.log = l }
}

func New(baseURL string, timeout time.Duration, creds CredentialStore, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		creds:   creds,
		log:     logging.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Endpoints that never carry a bearer token.
var publicPaths = []string{"/auth/login", "/auth/register", "/auth/refresh"}

func isPublic(path string) bool {
	for _, p := range publicPaths {
		if strings.Contains(path, p) {
			return true
		}
	}
	return false
}

// do issues one API call. body and out may be nil. out, when non-nil, receives
// the decoded 2xx response.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		payload = b
	}

	res, err := c.send(ctx, method, path, payload, c.creds.AccessToken())
	if err != nil {
		return err
	}

	if res.StatusCode == http.StatusUnauthorized && !isPublic(path) {
		origErr := decodeError(res)
		res.Body.Close()
		if c.creds.RefreshToken() == "" {
			// Nothing to refresh with: surface the original failure.
			return origErr
		}
		tok, rerr := c.refresh(ctx)
		if rerr != nil {
			return rerr
		}
		res, err = c.send(ctx, method, path, payload, tok)
		if err != nil {
			return err
		}
	}
	defer res.Body.Close()

	if res.StatusCode/100 != 2 {
		return decodeError(res)
	}
	if out == nil {
		io.Copy(io.Discard, res.Body)
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, path string, payload []byte, token string) (*http.Response, error) {
	var rd io.Reader
	if payload != nil {
		rd = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" && !isPublic(path) {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return res, nil
}

// refresh exchanges the stored refresh token for a new access token. A failed
// exchange clears all stored credentials and signals onAuthExpired.
func (c *Client) refresh(ctx context.Context) (string, error) {
	rt := c.creds.RefreshToken()
	body, _ := json.Marshal(map[string]string{"refreshToken": rt})
	res, err := c.send(ctx, http.MethodPost, "/auth/refresh", body, "")
	if err != nil {
		c.expireSession()
		return "", fmt.Errorf("token refresh: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode/100 != 2 {
		c.expireSession()
		return "", fmt.Errorf("token refresh: %w", decodeError(res))
	}

	var out struct {
		AccessToken string `json:"accessToken"`
	}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil || out.AccessToken == "" {
		c.expireSession()
		return "", fmt.Errorf("token refresh: bad response")
	}
	c.creds.SetAccessToken(out.AccessToken)
	c.log.Debug("access token refreshed")
	return out.AccessToken, nil
}

func (c *Client) expireSession() {
	c.creds.Clear()
	if c.onAuthExpired != nil {
		c.onAuthExpired()
	}
}

func decodeError(res *http.Response) error {
	apiErr := &APIError{Status: res.StatusCode}
	raw, _ := io.ReadAll(io.LimitReader(res.Body, 64<<10))
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Message != "" {
			apiErr.Message = body.Message
		} else if body.Error != "" {
			apiErr.Message = body.Error
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(raw))
	}
	return apiErr
}
