package provider

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/agisilaos/gfare/internal/model"
)

const (
	DefaultBaseURL       = "https://test.api.amadeus.com"
	DefaultSearchTimeout = 20 * time.Second

	searchPath   = "/v2/shopping/flight-offers"
	maxBodyBytes = 4 << 20
)

// AmadeusClient searches the Amadeus flight-offers API. Every call holds a
// Gate slot and runs under Timeout measured from slot acquisition.
type AmadeusClient struct {
	BaseURL string
	Client  *http.Client
	Tokens  TokenSource
	Gate    *Gate
	Timeout time.Duration
	Logger  *slog.Logger

	gateOnce sync.Once
}

func (c *AmadeusClient) Search(ctx context.Context, req model.SearchRequest) (model.Result, error) {
	var result model.Result
	err := c.gate().Do(ctx, func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, c.resolvedTimeout())
		defer cancel()
		body, err := c.searchWithRefresh(ctx, req)
		if err != nil {
			return err
		}
		result = model.NewResult(req, Normalize(body, c.logger()))
		return nil
	})
	if err != nil {
		var pe *Error
		if !errors.As(err, &pe) {
			// Only the gate wait can fail without classification.
			err = classifyContextErr(err)
		}
		return model.Result{}, err
	}
	return result, nil
}

// searchWithRefresh retries exactly once after a 401 with a freshly fetched
// token and returns whatever that retry produces.
func (c *AmadeusClient) searchWithRefresh(ctx context.Context, req model.SearchRequest) ([]byte, error) {
	tokens := c.Tokens
	if tokens == nil {
		return nil, &Error{Kind: KindAuth, Detail: "no token source configured"}
	}
	token, err := tokens.Token(ctx)
	if err != nil {
		return nil, err
	}
	body, err := c.fetchOnce(ctx, req, token)
	if err == nil || KindOf(err) != KindAuth {
		return body, err
	}

	c.logger().Warn("amadeus.search.unauthorized", "origin", req.Origin, "destination", req.Destination)
	tokens.Invalidate(token)
	token, err = tokens.Token(ctx)
	if err != nil {
		return nil, err
	}
	return c.fetchOnce(ctx, req, token)
}

func (c *AmadeusClient) fetchOnce(ctx context.Context, req model.SearchRequest, token string) ([]byte, error) {
	endpoint := buildSearchURL(c.BaseURL, req)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &Error{Kind: KindConnection, Err: err}
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)
	httpReq.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient().Do(httpReq)
	if err != nil {
		classified := classifyTransportErr(ctx, err)
		c.logger().Error("amadeus.search.transport", "origin", req.Origin, "destination", req.Destination, "duration", time.Since(start), "error", err)
		return nil, classified
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, classifyTransportErr(ctx, err)
	}
	if resp.StatusCode == http.StatusOK {
		c.logger().Info("amadeus.search.ok", "origin", req.Origin, "destination", req.Destination, "date", req.ISODate(), "duration", time.Since(start), "bytes", len(body))
		return body, nil
	}

	classified := classifyStatus(resp.StatusCode, body)
	c.logger().Error("amadeus.search.failed",
		"origin", req.Origin,
		"destination", req.Destination,
		"status", resp.StatusCode,
		"kind", string(classified.Kind),
		"detail", classified.Detail,
		"body", strings.TrimSpace(string(body)),
	)
	return nil, classified
}

func buildSearchURL(baseURL string, req model.SearchRequest) string {
	v := url.Values{}
	v.Set("originLocationCode", strings.ToUpper(req.Origin))
	v.Set("destinationLocationCode", strings.ToUpper(req.Destination))
	v.Set("departureDate", req.ISODate())
	v.Set("adults", "1")
	v.Set("currencyCode", "USD")
	v.Set("max", strconv.Itoa(MaxOffers))
	return resolveBaseURL(baseURL) + searchPath + "?" + v.Encode()
}

func (c *AmadeusClient) resolvedTimeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return DefaultSearchTimeout
}

func (c *AmadeusClient) gate() *Gate {
	c.gateOnce.Do(func() {
		if c.Gate == nil {
			c.Gate = NewGate(DefaultGateCapacity)
		}
	})
	return c.Gate
}

func (c *AmadeusClient) httpClient() *http.Client {
	if c.Client != nil {
		return c.Client
	}
	return http.DefaultClient
}

func (c *AmadeusClient) logger() *slog.Logger {
	return loggerOrDiscard(c.Logger)
}

func resolveBaseURL(base string) string {
	if strings.TrimSpace(base) != "" {
		return strings.TrimRight(base, "/")
	}
	return DefaultBaseURL
}

func loggerOrDiscard(l *slog.Logger) *slog.Logger {
	if l != nil {
		return l
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
