package service

import (
	"fmt"
	"strings"

	"github.com/nyaruka/phonenumbers"
	"go.uber.org/zap"

	appErrors "github.com/gracebti/admissions-api/pkg/errors"
)

// Per-country ceilings on local (post-country-code) digit counts. Anything
// not listed falls back to the international default.
var localDigitCeilings = map[string]int{
	"IN": 10,
	"US": 10,
	"CA": 10,
	"GB": 10,
}

const defaultLocalDigitCeiling = 15

// Digit prefixes stripped from the payload for known countries.
var countryDigitPrefixes = map[string]string{
	"IN": "91",
	"US": "1",
	"CA": "1",
	"GB": "44",
}

// PhoneDecision is the outcome of a per-keystroke normalization check.
type PhoneDecision struct {
	Accepted bool
	Value    string
	Error    string
}

// PhoneService normalizes and validates international phone numbers. The
// structured parser is the single source of truth for country detection;
// prefix sniffing only runs when parsing fails on a partial input.
type PhoneService struct {
	logger *zap.Logger
}

// NewPhoneService constructs a PhoneService.
func NewPhoneService(logger *zap.Logger) *PhoneService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PhoneService{logger: logger}
}

// Normalize checks a raw international phone string against the detected
// country's local digit ceiling. Within the ceiling the raw string is
// accepted unchanged; over it the input is rejected and the caller keeps its
// previously stored value.
func (s *PhoneService) Normalize(raw, countryHint string) PhoneDecision {
	if strings.TrimSpace(raw) == "" {
		return PhoneDecision{Accepted: true, Value: raw}
	}

	region := s.detectRegion(raw, countryHint)
	local := localDigits(raw, region)

	ceiling, ok := localDigitCeilings[region]
	if !ok {
		ceiling = defaultLocalDigitCeiling
	}

	if len(local) > ceiling {
		return PhoneDecision{
			Accepted: false,
			Error:    fmt.Sprintf("Should not exceed %d numbers", ceiling),
		}
	}
	return PhoneDecision{Accepted: true, Value: raw}
}

// Validate performs the final-submit E.164 validity check, independent of the
// per-keystroke ceiling logic.
func (s *PhoneService) Validate(raw string) error {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return appErrors.Clone(appErrors.ErrValidation, "Phone number is required")
	}
	parsed, err := phonenumbers.Parse(trimmed, "")
	if err != nil || !phonenumbers.IsValidNumber(parsed) {
		return appErrors.Clone(appErrors.ErrValidation, "Please enter a valid phone number")
	}
	return nil
}

func (s *PhoneService) detectRegion(raw, countryHint string) string {
	if parsed, err := phonenumbers.Parse(raw, countryHint); err == nil {
		if region := phonenumbers.GetRegionCodeForNumber(parsed); region != "" && region != "ZZ" {
			return region
		}
	}
	// Partial inputs often fail to parse; sniff the fixed known prefixes.
	switch {
	case strings.HasPrefix(raw, "+91"):
		return "IN"
	case strings.HasPrefix(raw, "+44"):
		return "GB"
	case strings.HasPrefix(raw, "+1"):
		return "US"
	}
	return countryHint
}

func localDigits(raw, region string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, raw)

	if prefix, ok := countryDigitPrefixes[region]; ok && strings.HasPrefix(digits, prefix) {
		return digits[len(prefix):]
	}
	return digits
}
