package model

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestNewSearchRequestNormalizesCodes(t *testing.T) {
	req, err := NewSearchRequest(" rgn", "bkk ", "2026-03-10", "Yangon", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Origin != "RGN" || req.Destination != "BKK" {
		t.Fatalf("expected upper-case codes, got %q %q", req.Origin, req.Destination)
	}
	if req.ISODate() != "2026-03-10" {
		t.Fatalf("unexpected iso date %q", req.ISODate())
	}
}

func TestNewSearchRequestAllowsSameOriginAndDestination(t *testing.T) {
	if _, err := NewSearchRequest("BKK", "BKK", "2026-03-10", "", ""); err != nil {
		t.Fatalf("expected pass-through, got %v", err)
	}
}

func TestNewSearchRequestRejectsBadInput(t *testing.T) {
	cases := []struct {
		name              string
		origin, dest, day string
	}{
		{name: "short code", origin: "RG", dest: "BKK", day: "2026-03-10"},
		{name: "digits", origin: "R1N", dest: "BKK", day: "2026-03-10"},
		{name: "bad date", origin: "RGN", dest: "BKK", day: "03/10/2026"},
		{name: "impossible date", origin: "RGN", dest: "BKK", day: "2026-02-30"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewSearchRequest(tc.origin, tc.dest, tc.day, "", "")
			if !errors.Is(err, ErrInvalidRequest) {
				t.Fatalf("expected ErrInvalidRequest, got %v", err)
			}
		})
	}
}

func TestNewResultLabels(t *testing.T) {
	req, _ := NewSearchRequest("CNX", "RGN", "2026-03-17", "Chiang Mai", "")
	res := NewResult(req, nil)
	if res.OriginLabel != "Chiang Mai (CNX)" {
		t.Fatalf("unexpected origin label %q", res.OriginLabel)
	}
	if res.DestinationLabel != "RGN" {
		t.Fatalf("expected bare code fallback, got %q", res.DestinationLabel)
	}
	if res.DisplayDate != "17 March 2026" {
		t.Fatalf("unexpected display date %q", res.DisplayDate)
	}
	if res.Offers == nil {
		t.Fatalf("expected non-nil offers slice")
	}
}

func TestFlightOfferJSONTags(t *testing.T) {
	b, err := json.Marshal(FlightOffer{PriceAmount: "1", CurrencyCode: "USD", CarrierName: "X"})
	if err != nil {
		t.Fatalf("marshal offer: %v", err)
	}
	s := string(b)
	if strings.Contains(s, "\"PriceAmount\"") || !strings.Contains(s, "\"price\"") {
		t.Fatalf("expected snake_case json keys, got: %s", s)
	}
}
