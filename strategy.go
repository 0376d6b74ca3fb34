package ytgrab

import (
	"fmt"
	"strings"
	"time"
)

// A Strategy is the abstract evasion/retry level the user picks; Profile
// turns it into the concrete resilience parameters handed to the backend.
type Strategy string

const (
	StrategyStandard   Strategy = "standard"
	StrategyAggressive Strategy = "aggressive"
)

// ParseStrategy maps a user-facing strategy name to a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case StrategyStandard:
		return StrategyStandard, nil
	case StrategyAggressive:
		return StrategyAggressive, nil
	default:
		return "", fmt.Errorf("unknown strategy %q", s)
	}
}

// A SleepRange is a randomized inter-request delay window. A zero SleepRange
// means no enforced delay.
type SleepRange struct {
	Min time.Duration
	Max time.Duration
}

func (r SleepRange) IsZero() bool {
	return r.Min == 0 && r.Max == 0
}

// A ResilienceProfile is the concrete set of retry/timeout/identity
// parameters derived from a Strategy. Both rows pin traffic to IPv4 and relax
// certificate verification: a deliberate availability-over-strictness
// trade-off, kept visible here rather than buried in argument assembly.
type ResilienceProfile struct {
	Retries            int
	FragmentRetries    int
	SocketTimeout      time.Duration
	Sleep              SleepRange
	UserAgent          string
	Referer            string
	AcceptLanguage     string
	ForceIPv4          bool
	NoCheckCertificate bool
	GeoBypass          bool
}

const (
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	youtubeReferer   = "https://www.youtube.com/"
)

// Profile is a pure two-row lookup with no failure modes. Aggressive
// parameters are pairwise >= Standard's: more retries, larger timeout, an
// added delay window, and an extra identity header.
func (s Strategy) Profile() ResilienceProfile {
	switch s {
	case StrategyAggressive:
		return ResilienceProfile{
			Retries:            20,
			FragmentRetries:    20,
			SocketTimeout:      60 * time.Second,
			Sleep:              SleepRange{Min: 2 * time.Second, Max: 5 * time.Second},
			UserAgent:          defaultUserAgent,
			Referer:            youtubeReferer,
			AcceptLanguage:     "en-US,en;q=0.9",
			ForceIPv4:          true,
			NoCheckCertificate: true,
			GeoBypass:          true,
		}
	default:
		return ResilienceProfile{
			Retries:            10,
			FragmentRetries:    10,
			SocketTimeout:      30 * time.Second,
			UserAgent:          defaultUserAgent,
			Referer:            youtubeReferer,
			ForceIPv4:          true,
			NoCheckCertificate: true,
			GeoBypass:          true,
		}
	}
}

// Args renders the profile as backend arguments. Retries are the backend's
// responsibility once the profile is handed over; no retry loop exists above.
func (p ResilienceProfile) Args() []string {
	args := []string{
		"--retries", fmt.Sprintf("%d", p.Retries),
		"--fragment-retries", fmt.Sprintf("%d", p.FragmentRetries),
		"--skip-unavailable-fragments",
		"--socket-timeout", fmt.Sprintf("%d", int(p.SocketTimeout.Seconds())),
	}
	if p.ForceIPv4 {
		args = append(args, "--force-ipv4")
	}
	if p.NoCheckCertificate {
		args = append(args, "--no-check-certificate")
	}
	if p.GeoBypass {
		args = append(args, "--geo-bypass")
	}
	if p.UserAgent != "" {
		args = append(args, "--user-agent", p.UserAgent)
	}
	if p.Referer != "" {
		args = append(args, "--referer", p.Referer)
	}
	if p.AcceptLanguage != "" {
		args = append(args, "--add-header", "Accept-Language:"+p.AcceptLanguage)
	}
	if !p.Sleep.IsZero() {
		args = append(args,
			"--sleep-interval", fmt.Sprintf("%d", int(p.Sleep.Min.Seconds())),
			"--max-sleep-interval", fmt.Sprintf("%d", int(p.Sleep.Max.Seconds())),
		)
	}
	return args
}
