package provider

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/agisilaos/gfare/internal/model"
)

// MaxOffers bounds how many offers survive a search, whatever upstream sends.
const MaxOffers = 5

const (
	defaultCurrency = "USD"
	defaultDuration = "PT0H0M"
	fallbackCarrier = "Airline"
)

// SkipError explains why a single upstream offer was dropped. It never
// escapes Normalize.
type SkipError struct {
	Index  int
	Reason string
}

func (e *SkipError) Error() string {
	return fmt.Sprintf("offer %d skipped: %s", e.Index, e.Reason)
}

// The envelope keeps offers raw so one ill-typed record cannot fail the
// decode of its neighbours.
type offersEnvelope struct {
	Data         []json.RawMessage `json:"data"`
	Dictionaries json.RawMessage   `json:"dictionaries"`
}

type offerDictionaries struct {
	Carriers map[string]string `json:"carriers"`
}

type rawOffer struct {
	Price *struct {
		Total    *flexText `json:"total"`
		Currency *string   `json:"currency"`
	} `json:"price"`
	Itineraries            []rawItinerary `json:"itineraries"`
	ValidatingAirlineCodes []string       `json:"validatingAirlineCodes"`
	ValidatingCarrierCodes []string       `json:"validatingCarrierCodes"`
}

type rawItinerary struct {
	Duration *string `json:"duration"`
	Segments []struct {
		CarrierCode *string `json:"carrierCode"`
	} `json:"segments"`
}

// flexText accepts a JSON string or number.
type flexText string

func (f *flexText) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexText(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", string(b))
	}
	*f = flexText(n.String())
	return nil
}

// Normalize turns a flight-offers payload into at most MaxOffers offers in
// upstream order. It never fails: malformed offers are skipped and an
// undecodable payload yields no offers.
func Normalize(body []byte, logger *slog.Logger) []model.FlightOffer {
	logger = loggerOrDiscard(logger)
	offers := make([]model.FlightOffer, 0, MaxOffers)

	var env offersEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		logger.Warn("amadeus.normalize.undecodable", "error", err)
		return offers
	}
	carriers := decodeCarriers(env.Dictionaries, logger)

	limit := len(env.Data)
	if limit > MaxOffers {
		limit = MaxOffers
	}
	for i := 0; i < limit; i++ {
		offer, err := normalizeOffer(i, env.Data[i], carriers)
		if err != nil {
			logger.Debug("amadeus.normalize.skip", "index", i, "reason", err.Error())
			continue
		}
		offers = append(offers, offer)
	}
	return offers
}

func decodeCarriers(raw json.RawMessage, logger *slog.Logger) map[string]string {
	if len(raw) == 0 {
		return map[string]string{}
	}
	var dict offerDictionaries
	if err := json.Unmarshal(raw, &dict); err != nil {
		logger.Warn("amadeus.normalize.dictionaries", "error", err)
		return map[string]string{}
	}
	if dict.Carriers == nil {
		return map[string]string{}
	}
	return dict.Carriers
}

func normalizeOffer(index int, raw json.RawMessage, carriers map[string]string) (model.FlightOffer, error) {
	var o rawOffer
	if err := json.Unmarshal(raw, &o); err != nil {
		return model.FlightOffer{}, &SkipError{Index: index, Reason: err.Error()}
	}
	if len(o.Itineraries) == 0 {
		return model.FlightOffer{}, &SkipError{Index: index, Reason: "no itineraries"}
	}
	if o.Price == nil || o.Price.Total == nil || strings.TrimSpace(string(*o.Price.Total)) == "" {
		return model.FlightOffer{}, &SkipError{Index: index, Reason: "missing price"}
	}

	currency := defaultCurrency
	if o.Price.Currency != nil && strings.TrimSpace(*o.Price.Currency) != "" {
		currency = strings.TrimSpace(*o.Price.Currency)
	}

	outbound := o.Itineraries[0]
	iso := defaultDuration
	if outbound.Duration != nil && *outbound.Duration != "" {
		iso = *outbound.Duration
	}
	readable, err := FormatDuration(iso)
	if err != nil {
		return model.FlightOffer{}, &SkipError{Index: index, Reason: err.Error()}
	}

	code := carrierCode(o, outbound)
	return model.FlightOffer{
		PriceAmount:  strings.TrimSpace(string(*o.Price.Total)),
		CurrencyCode: currency,
		CarrierCode:  code,
		CarrierName:  carrierName(code, carriers),
		DurationISO:  iso,
		Duration:     readable,
	}, nil
}

// carrierCode prefers the validating carrier and falls back to the first
// segment's operating carrier.
func carrierCode(o rawOffer, outbound rawItinerary) string {
	validating := o.ValidatingAirlineCodes
	if len(validating) == 0 {
		validating = o.ValidatingCarrierCodes
	}
	if len(validating) > 0 && strings.TrimSpace(validating[0]) != "" {
		return strings.TrimSpace(validating[0])
	}
	if len(outbound.Segments) > 0 && outbound.Segments[0].CarrierCode != nil {
		return strings.TrimSpace(*outbound.Segments[0].CarrierCode)
	}
	return ""
}

func carrierName(code string, carriers map[string]string) string {
	if code == "" {
		return fallbackCarrier
	}
	if name := strings.TrimSpace(carriers[code]); name != "" {
		return name
	}
	return code
}
