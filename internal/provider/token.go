package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/agisilaos/gfare/internal/model"
)

type TokenState struct {
	Cached     bool          `json:"cached"`
	ObtainedAt time.Time     `json:"obtained_at,omitempty"`
	Age        time.Duration `json:"age,omitempty"`
}

// TokenManager caches a client-credentials token until upstream rejects it.
// There is no proactive expiry check.
type TokenManager struct {
	ClientID     string
	ClientSecret string
	BaseURL      string
	Client       *http.Client
	Logger       *slog.Logger
	// Timeout bounds one token exchange. Zero means DefaultSearchTimeout.
	Timeout time.Duration

	mu      sync.RWMutex
	current *model.AccessToken
	group   singleflight.Group
	now     func() time.Time
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

func (m *TokenManager) Token(ctx context.Context) (string, error) {
	if tok, ok := m.cached(); ok {
		return tok, nil
	}
	ch := m.group.DoChan("token", func() (any, error) {
		// A concurrent fetch may have completed while we were queued.
		if tok, ok := m.cached(); ok {
			return tok, nil
		}
		// Detached from the first caller so its cancellation does not fail
		// the other waiters; each waiter still honors its own ctx below.
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.resolvedTimeout())
		defer cancel()
		tok, err := m.fetch(fetchCtx)
		if err != nil {
			return "", err
		}
		m.mu.Lock()
		m.current = &tok
		m.mu.Unlock()
		return tok.Value, nil
	})
	select {
	case <-ctx.Done():
		return "", classifyContextErr(ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

func (m *TokenManager) Invalidate(stale string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current != nil && m.current.Value == stale {
		m.current = nil
		m.logger().Info("amadeus.token.invalidated")
	}
}

func (m *TokenManager) State() TokenState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return TokenState{}
	}
	return TokenState{
		Cached:     true,
		ObtainedAt: m.current.ObtainedAt,
		Age:        m.clock()().Sub(m.current.ObtainedAt),
	}
}

func (m *TokenManager) HasCredentials() bool {
	return len(m.MissingCredentials()) == 0
}

// MissingCredentials names the environment variables that would supply the
// absent client credentials.
func (m *TokenManager) MissingCredentials() []string {
	var missing []string
	if strings.TrimSpace(m.ClientID) == "" {
		missing = append(missing, "AMADEUS_CLIENT_ID")
	}
	if strings.TrimSpace(m.ClientSecret) == "" {
		missing = append(missing, "AMADEUS_CLIENT_SECRET")
	}
	return missing
}

func (m *TokenManager) cached() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return "", false
	}
	return m.current.Value, true
}

func (m *TokenManager) fetch(ctx context.Context) (model.AccessToken, error) {
	if missing := m.MissingCredentials(); len(missing) > 0 {
		return model.AccessToken{}, &Error{Kind: KindAuth, Detail: "client credentials missing: set " + strings.Join(missing, " and ")}
	}
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", m.ClientID)
	form.Set("client_secret", m.ClientSecret)

	endpoint := resolveBaseURL(m.BaseURL) + "/v1/security/oauth2/token"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return model.AccessToken{}, &Error{Kind: KindConnection, Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	start := time.Now()
	resp, err := m.httpClient().Do(req)
	if err != nil {
		return model.AccessToken{}, classifyTransportErr(ctx, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return model.AccessToken{}, classifyTransportErr(ctx, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		m.logger().Error("amadeus.token.rejected", "status", resp.StatusCode, "body", string(body))
		return model.AccessToken{}, &Error{Kind: KindAuth, StatusCode: resp.StatusCode, Body: string(body), Detail: summarizeBody(body)}
	}

	var payload tokenResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return model.AccessToken{}, &Error{Kind: KindAuth, StatusCode: resp.StatusCode, Body: string(body), Err: fmt.Errorf("decode token response: %w", err)}
	}
	if payload.AccessToken == "" {
		return model.AccessToken{}, &Error{Kind: KindAuth, StatusCode: resp.StatusCode, Body: string(body), Detail: "token response missing access_token"}
	}
	m.logger().Info("amadeus.token.fetched", "duration", time.Since(start), "expires_in", payload.ExpiresIn)
	return model.AccessToken{Value: payload.AccessToken, ObtainedAt: m.clock()()}, nil
}

func (m *TokenManager) resolvedTimeout() time.Duration {
	if m.Timeout > 0 {
		return m.Timeout
	}
	return DefaultSearchTimeout
}

func (m *TokenManager) httpClient() *http.Client {
	if m.Client != nil {
		return m.Client
	}
	return http.DefaultClient
}

func (m *TokenManager) logger() *slog.Logger {
	return loggerOrDiscard(m.Logger)
}

func (m *TokenManager) clock() func() time.Time {
	if m.now != nil {
		return m.now
	}
	return time.Now
}

func classifyContextErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &Error{Kind: KindTimedOut, Err: err}
	}
	return &Error{Kind: KindConnection, Err: err}
}

// classifyTransportErr distinguishes our own deadline from network failures.
func classifyTransportErr(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return &Error{Kind: KindTimedOut, Err: ctxErr}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindTimedOut, Err: err}
	}
	return &Error{Kind: KindConnection, Err: err}
}
