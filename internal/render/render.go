package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/agisilaos/gfare/internal/model"
	"github.com/agisilaos/gfare/internal/provider"
)

var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"THB": "฿",
}

// CurrencySymbol maps a currency code to its display symbol, or returns the
// code itself when no symbol is known.
func CurrencySymbol(code string) string {
	if sym, ok := currencySymbols[strings.ToUpper(code)]; ok {
		return sym
	}
	return code
}

// Render turns the outcome of one search into the text shown to a traveller.
// err takes precedence over res. Upstream bodies are never included.
func Render(res model.Result, err error, b model.Branding) string {
	b = withDefaults(b)
	if err != nil {
		return Failure(err, b)
	}
	if len(res.Offers) == 0 {
		return NoFlights(b)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "✈️ %s → %s\n", res.OriginLabel, res.DestinationLabel)
	fmt.Fprintf(&sb, "📅 %s\n\n", res.DisplayDate)
	sb.WriteString("Available Flights:\n")
	lines := make([]string, 0, len(res.Offers))
	for _, o := range res.Offers {
		lines = append(lines, offerLine(o))
	}
	sb.WriteString(strings.Join(lines, "\n"))
	sb.WriteString(footer(b))
	return sb.String()
}

func offerLine(o model.FlightOffer) string {
	return fmt.Sprintf("\t•\t%s — %s%s — ⏱️ %s", o.CarrierName, CurrencySymbol(o.CurrencyCode), o.PriceAmount, o.Duration)
}

func footer(b model.Branding) string {
	return fmt.Sprintf("\n\nBooking & Support – %s\n\t•\t📞 Hotline: %s\n\t•\t📧 Email: %s\n\n✨ Let us know if you need help with booking or travel planning!",
		b.Name, b.Hotline, b.Email)
}

func NoFlights(b model.Branding) string {
	b = withDefaults(b)
	return fmt.Sprintf("❌ No direct flights found for this specific date. Please try an alternative date or call %s at %s.", b.Name, b.Hotline)
}

// Failure renders a classified search error. Unclassified errors get the
// generic message.
func Failure(err error, b model.Branding) string {
	b = withDefaults(b)
	switch provider.KindOf(err) {
	case provider.KindRateLimited:
		return fmt.Sprintf("🎫 NOTE: High-demand search limit reached for today. Please contact our 24/7 Hotline (%s) for immediate flight pricing and booking.", b.Hotline)
	case provider.KindServiceUnavailable:
		return fmt.Sprintf("⚠️ Aviation data system is temporarily slow. Please retry in 30 seconds or call %s at %s.", b.Name, b.Hotline)
	case provider.KindTimedOut:
		return fmt.Sprintf("⏳ Connection is taking a bit longer than usual due to high traffic. To save time, please call our direct hotline at %s for an instant quote!", b.Hotline)
	case provider.KindAuth:
		return fmt.Sprintf("⚠️ Our flight pricing service is not available right now. Please call %s at %s and our team will quote you directly.", b.Name, b.Hotline)
	case provider.KindConnection:
		return fmt.Sprintf("⚠️ We could not reach the flight pricing service. Please try again shortly or call our hotline at %s.", b.Hotline)
	case provider.KindHTTP:
		return fmt.Sprintf("⚠️ The flight pricing service could not handle this search. Please check the route and date, or call %s at %s.", b.Name, b.Hotline)
	default:
		return Unexpected(b)
	}
}

// Unexpected is shown when something outside the classified taxonomy fails.
func Unexpected(b model.Branding) string {
	b = withDefaults(b)
	return fmt.Sprintf("⚠️ I encountered a technical hiccup searching for flights. Please call %s at %s for an instant quote.", b.Name, b.Hotline)
}

// MissingDetails asks for the fields a search cannot run without.
func MissingDetails(b model.Branding) string {
	b = withDefaults(b)
	return fmt.Sprintf("✨ To provide exact pricing, please specify the Origin, Destination, and Travel Date (e.g., 'Search flights from RGN to BKK on May 10'). You can also call %s at %s.", b.Name, b.Hotline)
}

func InvalidRequest(err error, b model.Branding) string {
	b = withDefaults(b)
	reason := "the airport codes or travel date look incorrect"
	if errors.Is(err, model.ErrInvalidRequest) {
		if _, detail, ok := strings.Cut(err.Error(), ": "); ok && detail != "" {
			reason = detail
		}
	}
	return fmt.Sprintf("✨ I could not search with those details: %s. Please use 3-letter airport codes (e.g. RGN, BKK) and a YYYY-MM-DD date, or call %s at %s.", reason, b.Name, b.Hotline)
}

func withDefaults(b model.Branding) model.Branding {
	d := model.DefaultBranding()
	if strings.TrimSpace(b.Name) == "" {
		b.Name = d.Name
	}
	if strings.TrimSpace(b.Hotline) == "" {
		b.Hotline = d.Hotline
	}
	if strings.TrimSpace(b.Email) == "" {
		b.Email = d.Email
	}
	return b
}
