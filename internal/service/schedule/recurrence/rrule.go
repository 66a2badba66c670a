package recurrence

import (
	"fmt"
	"strings"

	"github.com/teambition/rrule-go"

	"github.com/heartmarshall/teamcal-backend/internal/domain"
)

// FormatRRule renders rule as an RFC 5545 RRULE value ("FREQ=WEEKLY;INTERVAL=1;COUNT=3").
// It is the storage and export format of a rule.
func FormatRRule(rule domain.RecurrenceRule) (string, error) {
	if err := rule.Validate(); err != nil {
		return "", err
	}

	opt := rrule.ROption{
		Freq:     toFrequency(rule.Frequency),
		Interval: rule.Interval,
	}
	if rule.Count != nil {
		opt.Count = *rule.Count
	}
	if rule.Until != nil {
		opt.Until = rule.Until.UTC()
	}
	return opt.RRuleString(), nil
}

// ParseRRule reads an RRULE value, with or without the "RRULE:" prefix.
// Only the subset this calendar can expand is accepted.
func ParseRRule(s string) (*domain.RecurrenceRule, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "RRULE:"))
	if s == "" {
		return nil, fmt.Errorf("%w: empty rule", domain.ErrInvalidRecurrenceRule)
	}

	opt, err := rrule.StrToROption(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidRecurrenceRule, err)
	}

	freq, ok := fromFrequency(opt.Freq)
	if !ok {
		return nil, fmt.Errorf("%w: unsupported frequency %v", domain.ErrInvalidRecurrenceRule, opt.Freq)
	}

	rule := &domain.RecurrenceRule{Frequency: freq, Interval: opt.Interval}
	if rule.Interval == 0 && !strings.Contains(strings.ToUpper(s), "INTERVAL=") {
		rule.Interval = 1
	}
	if opt.Count > 0 {
		count := opt.Count
		rule.Count = &count
	}
	if !opt.Until.IsZero() {
		until := opt.Until.UTC()
		rule.Until = &until
	}

	if err := rule.Validate(); err != nil {
		return nil, err
	}
	return rule, nil
}

func toFrequency(f domain.Frequency) rrule.Frequency {
	switch f {
	case domain.FrequencyDaily:
		return rrule.DAILY
	case domain.FrequencyWeekly:
		return rrule.WEEKLY
	default:
		return rrule.MONTHLY
	}
}

func fromFrequency(f rrule.Frequency) (domain.Frequency, bool) {
	switch f {
	case rrule.DAILY:
		return domain.FrequencyDaily, true
	case rrule.WEEKLY:
		return domain.FrequencyWeekly, true
	case rrule.MONTHLY:
		return domain.FrequencyMonthly, true
	}
	return "", false
}
