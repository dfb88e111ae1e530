package pricing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/agisilaos/gfare/internal/model"
	"github.com/agisilaos/gfare/internal/provider"
	"github.com/agisilaos/gfare/internal/render"
)

// CredentialReporter exposes token-cache state for diagnostics.
type CredentialReporter interface {
	MissingCredentials() []string
	State() provider.TokenState
}

// Query is what a caller asks for. Empty origin, destination or date yields
// a prompt for the missing details rather than a search.
type Query struct {
	Origin           string `json:"origin"`
	Destination      string `json:"destination"`
	Date             string `json:"date"`
	OriginLabel      string `json:"origin_label,omitempty"`
	DestinationLabel string `json:"destination_label,omitempty"`
}

func (q Query) complete() bool {
	return strings.TrimSpace(q.Origin) != "" &&
		strings.TrimSpace(q.Destination) != "" &&
		strings.TrimSpace(q.Date) != ""
}

type Status string

const (
	StatusOK         Status = "ok"
	StatusNoFlights  Status = "no_flights"
	StatusIncomplete Status = "incomplete"
	StatusInvalid    Status = "invalid"
	StatusFailed     Status = "failed"
)

// Outcome is one search as seen by a transport. Response is always set.
type Outcome struct {
	RequestID string             `json:"request_id"`
	Status    Status             `json:"status"`
	Response  string             `json:"response"`
	Result    *model.Result      `json:"result,omitempty"`
	ErrorKind provider.ErrorKind `json:"error_kind,omitempty"`
	Err       error              `json:"-"`
}

// Service is the single entry point used by the CLI and HTTP transports.
type Service struct {
	Client   provider.Searcher
	Tokens   CredentialReporter
	Branding model.Branding
	Logger   *slog.Logger

	// ProbeLeadDays sets how far ahead the diagnostic search looks.
	ProbeLeadDays int

	now   func() time.Time
	newID func() string
}

// Search always returns renderable text, including when the search panics.
func (s *Service) Search(ctx context.Context, q Query) string {
	return s.Run(ctx, q).Response
}

func (s *Service) Run(ctx context.Context, q Query) (out Outcome) {
	out.RequestID = s.requestID()
	log := s.logger().With("request_id", out.RequestID)
	defer func() {
		if r := recover(); r != nil {
			log.Error("pricing.search.panic", "panic", fmt.Sprint(r))
			out = Outcome{
				RequestID: out.RequestID,
				Status:    StatusFailed,
				Response:  render.Unexpected(s.Branding),
				Err:       fmt.Errorf("search panicked: %v", r),
			}
		}
	}()

	if !q.complete() {
		log.Info("pricing.search.incomplete", "origin", q.Origin, "destination", q.Destination, "date", q.Date)
		out.Status = StatusIncomplete
		out.Response = render.MissingDetails(s.Branding)
		out.Err = fmt.Errorf("%w: origin, destination and date are required", model.ErrInvalidRequest)
		return out
	}
	req, err := model.NewSearchRequest(q.Origin, q.Destination, q.Date, q.OriginLabel, q.DestinationLabel)
	if err != nil {
		log.Info("pricing.search.invalid", "error", err)
		out.Status = StatusInvalid
		out.Response = render.InvalidRequest(err, s.Branding)
		out.Err = err
		return out
	}
	if s.Client == nil {
		return s.fail(log, out, errors.New("pricing: no search client configured"))
	}

	start := time.Now()
	log.Info("pricing.search.start", "origin", req.Origin, "destination", req.Destination, "date", req.ISODate())
	res, err := s.Client.Search(ctx, req)
	if err != nil {
		log.Warn("pricing.search.failed", "kind", string(provider.KindOf(err)), "duration", time.Since(start), "error", err)
		return s.fail(log, out, err)
	}

	out.Result = &res
	out.Response = render.Render(res, nil, s.Branding)
	if len(res.Offers) == 0 {
		out.Status = StatusNoFlights
	} else {
		out.Status = StatusOK
	}
	log.Info("pricing.search.done", "status", string(out.Status), "offers", len(res.Offers), "duration", time.Since(start))
	return out
}

func (s *Service) fail(log *slog.Logger, out Outcome, err error) Outcome {
	if provider.KindOf(err) == "" {
		log.Error("pricing.search.unexpected", "error", err)
	}
	out.Status = StatusFailed
	out.ErrorKind = provider.KindOf(err)
	out.Response = render.Render(model.Result{}, err, s.Branding)
	out.Err = err
	return out
}

func (s *Service) requestID() string {
	if s.newID != nil {
		return s.newID()
	}
	return uuid.NewString()
}

func (s *Service) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

func (s *Service) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
