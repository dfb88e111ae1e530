package provider

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/agisilaos/gfare/internal/model"
)

// fakeUpstream serves the Amadeus token and flight-offers endpoints and counts
// calls at the transport boundary.
type fakeUpstream struct {
	srv         *httptest.Server
	tokenCalls  atomic.Int32
	searchCalls atomic.Int32
	inFlight    atomic.Int32
	maxInFlight atomic.Int32

	mu            sync.Mutex
	tokenHandler  http.HandlerFunc
	searchHandler http.HandlerFunc
}

func (f *fakeUpstream) onToken(h http.HandlerFunc) {
	f.mu.Lock()
	f.tokenHandler = h
	f.mu.Unlock()
}

func (f *fakeUpstream) onSearch(h http.HandlerFunc) {
	f.mu.Lock()
	f.searchHandler = h
	f.mu.Unlock()
}

func (f *fakeUpstream) handlers() (http.HandlerFunc, http.HandlerFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tokenHandler, f.searchHandler
}

func newFakeUpstream(t *testing.T) *fakeUpstream {
	t.Helper()
	f := &fakeUpstream{}
	f.tokenHandler = func(w http.ResponseWriter, r *http.Request) {
		n := f.tokenCalls.Load()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok-` + strconv.Itoa(int(n)) + `","token_type":"Bearer","expires_in":1799}`))
	}
	f.searchHandler = func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleOffers))
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/security/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		f.tokenCalls.Add(1)
		h, _ := f.handlers()
		h(w, r)
	})
	mux.HandleFunc("/v2/shopping/flight-offers", func(w http.ResponseWriter, r *http.Request) {
		f.searchCalls.Add(1)
		n := f.inFlight.Add(1)
		defer f.inFlight.Add(-1)
		for {
			cur := f.maxInFlight.Load()
			if n <= cur || f.maxInFlight.CompareAndSwap(cur, n) {
				break
			}
		}
		_, h := f.handlers()
		h(w, r)
	})
	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeUpstream) client(timeout time.Duration) *AmadeusClient {
	tokens := &TokenManager{ClientID: "id", ClientSecret: "secret", BaseURL: f.srv.URL, Timeout: timeout}
	return &AmadeusClient{
		BaseURL: f.srv.URL,
		Tokens:  tokens,
		Gate:    NewGate(DefaultGateCapacity),
		Timeout: timeout,
	}
}

func testRequest(t *testing.T) model.SearchRequest {
	t.Helper()
	req, err := model.NewSearchRequest("rgn", "bkk", "2026-03-10", "Yangon", "Bangkok")
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	return req
}

const sampleOffers = `{
  "data": [
    {
      "price": {"currency": "USD", "total": "182.40"},
      "itineraries": [{"duration": "PT1H35M", "segments": [{"carrierCode": "PG"}]}],
      "validatingAirlineCodes": ["PG"]
    },
    {
      "price": {"currency": "EUR", "total": "210.00"},
      "itineraries": [{"duration": "PT2H", "segments": [{"carrierCode": "8M"}]}]
    }
  ],
  "dictionaries": {"carriers": {"PG": "BANGKOK AIRWAYS", "8M": "MYANMAR AIRWAYS INTL"}}
}`
