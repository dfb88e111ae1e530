package provider

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManagerCachesToken(t *testing.T) {
	up := newFakeUpstream(t)
	m := &TokenManager{ClientID: "id", ClientSecret: "secret", BaseURL: up.srv.URL}

	first, err := m.Token(context.Background())
	require.NoError(t, err)
	second, err := m.Token(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.EqualValues(t, 1, up.tokenCalls.Load())
	assert.True(t, m.State().Cached)
}

func TestTokenManagerSendsClientCredentials(t *testing.T) {
	up := newFakeUpstream(t)
	up.onToken(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
		assert.Equal(t, "id", r.PostForm.Get("client_id"))
		assert.Equal(t, "secret", r.PostForm.Get("client_secret"))
		_, _ = w.Write([]byte(`{"access_token":"abc"}`))
	})
	m := &TokenManager{ClientID: "id", ClientSecret: "secret", BaseURL: up.srv.URL}
	tok, err := m.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc", tok)
}

func TestTokenManagerCollapsesConcurrentFetches(t *testing.T) {
	up := newFakeUpstream(t)
	release := make(chan struct{})
	up.onToken(func(w http.ResponseWriter, r *http.Request) {
		<-release
		_, _ = w.Write([]byte(`{"access_token":"shared"}`))
	})
	m := &TokenManager{ClientID: "id", ClientSecret: "secret", BaseURL: up.srv.URL}

	var wg sync.WaitGroup
	tokens := make([]string, 8)
	for i := range tokens {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tok, err := m.Token(context.Background())
			assert.NoError(t, err)
			tokens[i] = tok
		}(i)
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.EqualValues(t, 1, up.tokenCalls.Load())
	for _, tok := range tokens {
		assert.Equal(t, "shared", tok)
	}
}

func TestTokenManagerRejectedCredentials(t *testing.T) {
	up := newFakeUpstream(t)
	up.onToken(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"invalid_client","error_description":"Client credentials are invalid"}`))
	})
	m := &TokenManager{ClientID: "id", ClientSecret: "wrong", BaseURL: up.srv.URL}

	_, err := m.Token(context.Background())
	require.ErrorIs(t, err, ErrAuthRequired)

	var pe *Error
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, http.StatusUnauthorized, pe.StatusCode)
	assert.Contains(t, pe.Body, "invalid_client")
	assert.Equal(t, "Client credentials are invalid", pe.Detail)
	assert.False(t, m.State().Cached)
}

func TestTokenManagerMissingCredentials(t *testing.T) {
	up := newFakeUpstream(t)
	m := &TokenManager{BaseURL: up.srv.URL}
	_, err := m.Token(context.Background())
	require.ErrorIs(t, err, ErrAuthRequired)
	assert.EqualValues(t, 0, up.tokenCalls.Load())
}

func TestTokenManagerInvalidateOnlyDropsStaleToken(t *testing.T) {
	up := newFakeUpstream(t)
	m := &TokenManager{ClientID: "id", ClientSecret: "secret", BaseURL: up.srv.URL}

	tok, err := m.Token(context.Background())
	require.NoError(t, err)

	m.Invalidate("some-older-token")
	assert.True(t, m.State().Cached)

	m.Invalidate(tok)
	assert.False(t, m.State().Cached)

	fresh, err := m.Token(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, tok, fresh)
	assert.EqualValues(t, 2, up.tokenCalls.Load())
}

func TestTokenStateAge(t *testing.T) {
	up := newFakeUpstream(t)
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	now := base
	m := &TokenManager{ClientID: "id", ClientSecret: "secret", BaseURL: up.srv.URL, now: func() time.Time { return now }}

	_, err := m.Token(context.Background())
	require.NoError(t, err)
	now = base.Add(10 * time.Minute)

	st := m.State()
	assert.Equal(t, base, st.ObtainedAt)
	assert.Equal(t, 10*time.Minute, st.Age)
}

func TestTokenManagerMissingCredentialsNamesVariables(t *testing.T) {
	m := &TokenManager{ClientID: "id"}
	assert.Equal(t, []string{"AMADEUS_CLIENT_SECRET"}, m.MissingCredentials())
	assert.False(t, m.HasCredentials())

	_, err := m.Token(context.Background())
	require.ErrorIs(t, err, ErrAuthRequired)
	assert.Contains(t, err.Error(), "AMADEUS_CLIENT_SECRET")
}

func TestTokenManagerHonorsConfiguredTimeout(t *testing.T) {
	up := newFakeUpstream(t)
	up.onToken(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	})
	m := &TokenManager{ClientID: "id", ClientSecret: "secret", BaseURL: up.srv.URL, Timeout: 50 * time.Millisecond}

	start := time.Now()
	_, err := m.Token(context.Background())
	require.ErrorIs(t, err, ErrTimedOut)
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.False(t, m.State().Cached)
}
