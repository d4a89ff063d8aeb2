package value

import (
	"log/slog"
	"strings"
	"time"

	"github.com/cockroachdb/apd/v3"
)

// datetimeLayouts are tried in order by ParseDatetime for literals without an
// explicit zone offset. Layouts carrying an offset are handled by RFC 3339
// parsing first.
var datetimeLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// EpochSeconds returns the seconds since the Unix epoch of a DATETIME value
// as an exact FLOAT, including the fractional part.
func EpochSeconds(t time.Time) Value {
	secs := apd.New(t.Unix(), 0)

	if ns := int64(t.Nanosecond()); ns != 0 {
		frac := apd.New(ns, -9)
		sum := new(apd.Decimal)

		_, _ = decCtx.Add(sum, secs, frac)

		return Float(sum)
	}

	return Float(secs)
}

// ParseDatetime parses a DATETIME literal body. Literals with an explicit
// offset are parsed as RFC 3339; naive literals are interpreted in loc (nil
// means UTC).
func ParseDatetime(text string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}

	if t, err := time.Parse(time.RFC3339Nano, text); err == nil {
		return t, nil
	}

	for _, layout := range datetimeLayouts {
		if t, err := time.ParseInLocation(layout, strings.TrimSpace(text), loc); err == nil {
			return t, nil
		}
	}

	return time.Time{}, ErrBadConversion.With(
		slog.String("reason", "invalid datetime string"),
		slog.String("value", text),
	)
}
