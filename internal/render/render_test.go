package render

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agisilaos/gfare/internal/model"
	"github.com/agisilaos/gfare/internal/provider"
)

func sampleResult(t *testing.T, offers ...model.FlightOffer) model.Result {
	t.Helper()
	req, err := model.NewSearchRequest("RGN", "BKK", "2026-03-10", "Yangon", "")
	require.NoError(t, err)
	return model.NewResult(req, offers)
}

func TestRenderOffers(t *testing.T) {
	res := sampleResult(t,
		model.FlightOffer{PriceAmount: "182.40", CurrencyCode: "USD", CarrierName: "BANGKOK AIRWAYS", Duration: "1 hour 35 minutes"},
		model.FlightOffer{PriceAmount: "210.00", CurrencyCode: "EUR", CarrierName: "8M", Duration: "2 hours"},
		model.FlightOffer{PriceAmount: "5000", CurrencyCode: "MMK", CarrierName: "Airline", Duration: "Unknown duration"},
	)
	got := Render(res, nil, model.DefaultBranding())

	want := "✈️ Yangon (RGN) → BKK\n" +
		"📅 10 March 2026\n\n" +
		"Available Flights:\n" +
		"\t•\tBANGKOK AIRWAYS — $182.40 — ⏱️ 1 hour 35 minutes\n" +
		"\t•\t8M — €210.00 — ⏱️ 2 hours\n" +
		"\t•\tAirline — MMK5000 — ⏱️ Unknown duration" +
		"\n\nBooking & Support – Sunfar Travel\n" +
		"\t•\t📞 Hotline: 01-8243993\n" +
		"\t•\t📧 Email: info@sunfar38.com\n\n" +
		"✨ Let us know if you need help with booking or travel planning!"
	assert.Equal(t, want, got)
}

func TestRenderNoOffersIsDistinct(t *testing.T) {
	b := model.Branding{Name: "Acme Air Desk", Hotline: "555-0100", Email: "desk@acme.test"}
	got := Render(sampleResult(t), nil, b)
	assert.Equal(t, NoFlights(b), got)
	assert.Contains(t, got, "Acme Air Desk")
	assert.Contains(t, got, "555-0100")
	assert.NotContains(t, got, "Available Flights")
}

func TestRenderErrorsCarryHotlineNotBody(t *testing.T) {
	const body = `{"errors":[{"detail":"SECRET-UPSTREAM-DETAIL"}]}`
	b := model.Branding{Name: "Acme Air Desk", Hotline: "555-0100", Email: "desk@acme.test"}
	kinds := []provider.ErrorKind{
		provider.KindAuth,
		provider.KindRateLimited,
		provider.KindServiceUnavailable,
		provider.KindHTTP,
		provider.KindConnection,
		provider.KindTimedOut,
	}
	seen := map[string]provider.ErrorKind{}
	for _, kind := range kinds {
		t.Run(string(kind), func(t *testing.T) {
			err := &provider.Error{Kind: kind, StatusCode: 500, Body: body, Detail: "SECRET-UPSTREAM-DETAIL"}
			got := Render(model.Result{}, err, b)
			assert.Contains(t, got, "555-0100")
			assert.NotContains(t, got, "SECRET-UPSTREAM-DETAIL")
			if prev, dup := seen[got]; dup {
				t.Fatalf("kind %s renders the same text as %s", kind, prev)
			}
			seen[got] = kind
		})
	}
}

func TestRenderWrappedErrorKeepsKind(t *testing.T) {
	err := fmt.Errorf("search: %w", &provider.Error{Kind: provider.KindRateLimited})
	got := Render(model.Result{}, err, model.DefaultBranding())
	assert.True(t, strings.HasPrefix(got, "🎫"))
}

func TestRenderUnclassifiedError(t *testing.T) {
	got := Render(model.Result{}, fmt.Errorf("nil map write"), model.Branding{})
	assert.Equal(t, Unexpected(model.DefaultBranding()), got)
	assert.NotContains(t, got, "nil map write")
}

func TestRenderFillsMissingBranding(t *testing.T) {
	got := NoFlights(model.Branding{Name: "Acme Air Desk"})
	assert.Contains(t, got, "Acme Air Desk")
	assert.Contains(t, got, model.DefaultBranding().Hotline)
}

func TestMissingDetails(t *testing.T) {
	got := MissingDetails(model.DefaultBranding())
	assert.Contains(t, got, "Origin")
	assert.Contains(t, got, "Destination")
	assert.Contains(t, got, "Travel Date")
}

func TestInvalidRequestExplainsReason(t *testing.T) {
	_, err := model.NewSearchRequest("RG", "BKK", "2026-03-10", "", "")
	require.Error(t, err)
	got := InvalidRequest(err, model.DefaultBranding())
	assert.Contains(t, got, `"RG" is not a 3-letter IATA code`)
	assert.Contains(t, got, "01-8243993")
}

func TestCurrencySymbol(t *testing.T) {
	assert.Equal(t, "$", CurrencySymbol("USD"))
	assert.Equal(t, "€", CurrencySymbol("eur"))
	assert.Equal(t, "฿", CurrencySymbol("THB"))
	assert.Equal(t, "GBP", CurrencySymbol("GBP"))
}
