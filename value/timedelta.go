package value

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// timedeltaPattern accepts the ISO-8601-style duration form used by t"..."
// literals: P[nW][nD][T[nH][nM][nS]], where the seconds component may carry
// a decimal fraction. "PT" is the zero duration; a bare "P" is rejected.
var timedeltaPattern = regexp.MustCompile(
	`^P(?:(\d+)W)?(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+(?:\.\d+)?)S)?)?$`,
)

// ParseTimedelta parses a TIMEDELTA literal body into a signed duration.
func ParseTimedelta(text string) (time.Duration, error) {
	if text == "P" {
		return 0, ErrBadConversion.With(
			slog.String("reason", "empty timedelta string"),
		)
	}

	match := timedeltaPattern.FindStringSubmatch(text)
	if match == nil {
		return 0, ErrBadConversion.With(
			slog.String("reason", "invalid timedelta string"),
			slog.String("value", text),
		)
	}

	var dur time.Duration

	units := []time.Duration{
		7 * 24 * time.Hour, // weeks
		24 * time.Hour,     // days
		time.Hour,
		time.Minute,
	}

	for i, unit := range units {
		if match[i+1] == "" {
			continue
		}

		n, err := strconv.ParseInt(match[i+1], 10, 64)
		if err != nil {
			return 0, ErrBadConversion.Wrap(err)
		}

		dur += time.Duration(n) * unit
	}

	if match[5] != "" {
		secs, err := strconv.ParseFloat(match[5], 64)
		if err != nil {
			return 0, ErrBadConversion.Wrap(err)
		}

		dur += time.Duration(secs * float64(time.Second))
	}

	return dur, nil
}

// FormatTimedelta renders a duration in the same form ParseTimedelta accepts.
// The zero duration renders as "PT0S"; negative durations carry a leading
// minus sign.
func FormatTimedelta(dur time.Duration) string {
	if dur == 0 {
		return "PT0S"
	}

	var sb strings.Builder

	if dur < 0 {
		sb.WriteByte('-')

		dur = -dur
	}

	sb.WriteByte('P')

	days := dur / (24 * time.Hour)
	dur -= days * 24 * time.Hour

	weeks := days / 7
	days -= weeks * 7

	if weeks > 0 {
		sb.WriteString(strconv.FormatInt(int64(weeks), 10))
		sb.WriteByte('W')
	}

	if days > 0 {
		sb.WriteString(strconv.FormatInt(int64(days), 10))
		sb.WriteByte('D')
	}

	if dur == 0 {
		return sb.String()
	}

	sb.WriteByte('T')

	hours := dur / time.Hour
	dur -= hours * time.Hour
	mins := dur / time.Minute
	dur -= mins * time.Minute

	if hours > 0 {
		sb.WriteString(strconv.FormatInt(int64(hours), 10))
		sb.WriteByte('H')
	}

	if mins > 0 {
		sb.WriteString(strconv.FormatInt(int64(mins), 10))
		sb.WriteByte('M')
	}

	if dur > 0 {
		secs := float64(dur) / float64(time.Second)
		sb.WriteString(strconv.FormatFloat(secs, 'f', -1, 64))
		sb.WriteByte('S')
	}

	return sb.String()
}
