package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"mobilepay_ledger/internal/usecase/interfaces"

	"golang.org/x/oauth2"
)

// tokenExpiryMargin keeps a cached credential from being used right at its expiry.
const tokenExpiryMargin = 60 * time.Second

// accessTokenSource fetches the gateway's short-lived bearer credential.
// The endpoint takes basic auth on a GET, so oauth2/clientcredentials does not fit.
type accessTokenSource struct {
	baseURL string
	key     string
	secret  string
	client  *http.Client
	now     func() time.Time
}

type accessTokenResponse struct {
	AccessToken string     `json:"access_token"`
	ExpiresIn   flexString `json:"expires_in"`
}

func (s *accessTokenSource) Token() (*oauth2.Token, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.client.Timeout+time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/oauth/v1/generate?grant_type=client_credentials", nil)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(s.key, s.secret)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &Error{Err: interfaces.ErrGatewayTransient, Message: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &Error{Err: interfaces.ErrGatewayTransient, StatusCode: resp.StatusCode, Message: err.Error()}
	}
	if resp.StatusCode != http.StatusOK {
		gwErr := classifyHTTPError(resp.StatusCode, raw)
		if resp.StatusCode == http.StatusBadRequest {
			gwErr.Err = interfaces.ErrGatewayUnauthorized
		}
		return nil, gwErr
	}

	var body accessTokenResponse
	if err := json.Unmarshal(raw, &body); err != nil || body.AccessToken == "" {
		return nil, &Error{Err: interfaces.ErrGatewayMalformed, StatusCode: resp.StatusCode, Message: "access token response"}
	}

	ttl := 3599 * time.Second
	if secs, err := strconv.Atoi(strings.TrimSpace(string(body.ExpiresIn))); err == nil && secs > 0 {
		ttl = time.Duration(secs) * time.Second
	}
	if ttl > tokenExpiryMargin {
		ttl -= tokenExpiryMargin
	}

	return &oauth2.Token{
		AccessToken: body.AccessToken,
		TokenType:   "Bearer",
		Expiry:      s.now().Add(ttl),
	}, nil
}

// credentialCache hands out the cached credential and can drop it after an
// authorization failure so the next call fetches a fresh one.
type credentialCache struct {
	mu     sync.Mutex
	base   oauth2.TokenSource
	cached oauth2.TokenSource
}

func newCredentialCache(base oauth2.TokenSource) *credentialCache {
	return &credentialCache{base: base, cached: oauth2.ReuseTokenSource(nil, base)}
}

func (c *credentialCache) token() (*oauth2.Token, error) {
	c.mu.Lock()
	ts := c.cached
	c.mu.Unlock()
	tok, err := ts.Token()
	if err != nil {
		return nil, fmt.Errorf("fetch gateway access token: %w", err)
	}
	return tok, nil
}

func (c *credentialCache) invalidate() {
	c.mu.Lock()
	c.cached = oauth2.ReuseTokenSource(nil, c.base)
	c.mu.Unlock()
}

// flexString accepts a JSON string or number; the gateway is not consistent.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*f = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*f = flexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}
