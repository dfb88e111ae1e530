package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

var ErrInvalidRequest = errors.New("invalid search request")

type SearchRequest struct {
	Origin           string    `json:"origin"`
	Destination      string    `json:"destination"`
	Date             time.Time `json:"date"`
	OriginLabel      string    `json:"origin_label,omitempty"`
	DestinationLabel string    `json:"destination_label,omitempty"`
}

// NewSearchRequest normalizes airport codes to upper case and parses date as
// YYYY-MM-DD. Origin and destination may be equal.
func NewSearchRequest(origin, destination, date, originLabel, destinationLabel string) (SearchRequest, error) {
	o, err := normalizeCode(origin)
	if err != nil {
		return SearchRequest{}, fmt.Errorf("%w: origin: %v", ErrInvalidRequest, err)
	}
	d, err := normalizeCode(destination)
	if err != nil {
		return SearchRequest{}, fmt.Errorf("%w: destination: %v", ErrInvalidRequest, err)
	}
	day, err := time.Parse(DateLayout, strings.TrimSpace(date))
	if err != nil {
		return SearchRequest{}, fmt.Errorf("%w: date %q must be YYYY-MM-DD", ErrInvalidRequest, date)
	}
	return SearchRequest{
		Origin:           o,
		Destination:      d,
		Date:             day,
		OriginLabel:      strings.TrimSpace(originLabel),
		DestinationLabel: strings.TrimSpace(destinationLabel),
	}, nil
}

func (r SearchRequest) ISODate() string {
	return r.Date.Format(DateLayout)
}

func normalizeCode(code string) (string, error) {
	c := strings.ToUpper(strings.TrimSpace(code))
	if len(c) != 3 {
		return "", fmt.Errorf("%q is not a 3-letter IATA code", code)
	}
	for _, r := range c {
		if r < 'A' || r > 'Z' {
			return "", fmt.Errorf("%q is not a 3-letter IATA code", code)
		}
	}
	return c, nil
}

type AccessToken struct {
	Value      string
	ObtainedAt time.Time
}

type FlightOffer struct {
	PriceAmount  string `json:"price"`
	CurrencyCode string `json:"currency"`
	CarrierCode  string `json:"carrier_code,omitempty"`
	CarrierName  string `json:"carrier"`
	DurationISO  string `json:"duration_iso"`
	Duration     string `json:"duration"`
}

type Result struct {
	Request          SearchRequest `json:"request"`
	Offers           []FlightOffer `json:"offers"`
	OriginLabel      string        `json:"origin_label"`
	DestinationLabel string        `json:"destination_label"`
	DisplayDate      string        `json:"display_date"`
}

// NewResult fills the display fields from the request. Labels fall back to
// the bare code; a supplied label is shown as "Label (CODE)".
func NewResult(req SearchRequest, offers []FlightOffer) Result {
	if offers == nil {
		offers = []FlightOffer{}
	}
	return Result{
		Request:          req,
		Offers:           offers,
		OriginLabel:      routeLabel(req.OriginLabel, req.Origin),
		DestinationLabel: routeLabel(req.DestinationLabel, req.Destination),
		DisplayDate:      req.Date.Format("02 January 2006"),
	}
}

func routeLabel(label, code string) string {
	if label == "" {
		return code
	}
	return fmt.Sprintf("%s (%s)", label, code)
}

type Branding struct {
	Name    string `json:"name" yaml:"name"`
	Hotline string `json:"hotline" yaml:"hotline"`
	Email   string `json:"email" yaml:"email"`
}

func DefaultBranding() Branding {
	return Branding{
		Name:    "Sunfar Travel",
		Hotline: "01-8243993",
		Email:   "info@sunfar38.com",
	}
}
