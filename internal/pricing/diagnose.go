package pricing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/agisilaos/gfare/internal/model"
	"github.com/agisilaos/gfare/internal/provider"
)

const (
	ProbeOrigin      = "RGN"
	ProbeDestination = "BKK"

	defaultProbeLeadDays = 30
)

const (
	CheckOK   = "ok"
	CheckWarn = "warn"
	CheckFail = "fail"
)

type Check struct {
	Name    string `json:"name"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

type Probe struct {
	Origin      string             `json:"origin"`
	Destination string             `json:"destination"`
	Date        string             `json:"date"`
	Offers      int                `json:"offers"`
	ErrorKind   provider.ErrorKind `json:"error_kind,omitempty"`
	Error       string             `json:"error,omitempty"`
	Duration    time.Duration      `json:"duration"`
}

type Report struct {
	OK       bool                `json:"ok"`
	Failures int                 `json:"failures"`
	Warnings int                 `json:"warnings"`
	Checks   []Check             `json:"checks"`
	Token    provider.TokenState `json:"token"`
	Probe    *Probe              `json:"probe,omitempty"`
}

// Diagnose reports credential presence and token cache state, then runs one
// live search on a fixed route. The only state it changes is the token cache.
func (s *Service) Diagnose(ctx context.Context) Report {
	var report Report
	add := func(name, status, message string) {
		report.Checks = append(report.Checks, Check{Name: name, Status: status, Message: message})
	}

	if s.Tokens == nil {
		add("credentials", CheckFail, "no token manager configured")
	} else {
		if missing := s.Tokens.MissingCredentials(); len(missing) > 0 {
			add("credentials", CheckFail, "missing "+strings.Join(missing, ", "))
		} else {
			add("credentials", CheckOK, "AMADEUS_CLIENT_ID and AMADEUS_CLIENT_SECRET present")
		}
		report.Token = s.Tokens.State()
		if report.Token.Cached {
			add("token", CheckOK, fmt.Sprintf("cached, obtained %s ago", report.Token.Age.Round(time.Second)))
		} else {
			add("token", CheckWarn, "no token cached")
		}
	}

	if s.Client == nil {
		add("probe", CheckFail, "no search client configured")
	} else {
		probe := s.probe(ctx)
		report.Probe = &probe
		switch {
		case probe.Error != "":
			add("probe", CheckFail, fmt.Sprintf("%s→%s on %s failed: %s", probe.Origin, probe.Destination, probe.Date, probe.Error))
		case probe.Offers == 0:
			add("probe", CheckWarn, fmt.Sprintf("%s→%s on %s returned no offers; the sandbox may not carry data for this route", probe.Origin, probe.Destination, probe.Date))
		default:
			add("probe", CheckOK, fmt.Sprintf("%s→%s on %s returned %d offer(s)", probe.Origin, probe.Destination, probe.Date, probe.Offers))
		}
	}

	for _, c := range report.Checks {
		switch c.Status {
		case CheckFail:
			report.Failures++
		case CheckWarn:
			report.Warnings++
		}
	}
	report.OK = report.Failures == 0
	s.logger().Info("pricing.diagnose", "ok", report.OK, "failures", report.Failures, "warnings", report.Warnings)
	return report
}

func (s *Service) probe(ctx context.Context) (p Probe) {
	lead := s.ProbeLeadDays
	if lead <= 0 {
		lead = defaultProbeLeadDays
	}
	date := s.clock().AddDate(0, 0, lead).Format(model.DateLayout)
	p = Probe{Origin: ProbeOrigin, Destination: ProbeDestination, Date: date}
	defer func() {
		if r := recover(); r != nil {
			s.logger().Error("pricing.diagnose.panic", "panic", fmt.Sprint(r))
			p.Offers = 0
			p.Error = fmt.Sprintf("search panicked: %v", r)
		}
	}()

	req, err := model.NewSearchRequest(ProbeOrigin, ProbeDestination, date, "", "")
	if err != nil {
		p.Error = err.Error()
		return p
	}
	start := time.Now()
	res, err := s.Client.Search(ctx, req)
	p.Duration = time.Since(start)
	if err != nil {
		p.ErrorKind = provider.KindOf(err)
		p.Error = err.Error()
		return p
	}
	p.Offers = len(res.Offers)
	return p
}
