package duration

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Encoding is the wire shape a Duration was received in.
type Encoding int

const (
	// EncodingObject is {"hours": H, "minutes": M}.
	EncodingObject Encoding = iota
	// EncodingString is "1h 30m".
	EncodingString
)

// MaxMinutes is the longest accepted duration, one week.
const MaxMinutes = 7 * 24 * 60

var ErrInvalid = errors.New("invalid duration")

var (
	tokenRe    = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*([hm])`)
	tokensRe   = regexp.MustCompile(`(?i)^(?:\d+(?:\.\d+)?\s*[hm]\s*)+$`)
	intervalRe = regexp.MustCompile(`^(\d+):([0-5]\d)(?::([0-5]\d))?$`)
)

// Duration is a length of time held as whole minutes. It remembers the
// encoding it was decoded from so responses echo the caller's shape.
type Duration struct {
	minutes  int
	encoding Encoding
}

func FromMinutes(m int) Duration {
	return Duration{minutes: m}
}

func (d Duration) Minutes() int { return d.minutes }

func (d Duration) Hours() float64 { return float64(d.minutes) / 60 }

// Valid reports whether d is positive and no longer than MaxMinutes.
func (d Duration) Valid() bool { return d.minutes > 0 && d.minutes <= MaxMinutes }

func (d Duration) Encoding() Encoding { return d.encoding }

// WithEncoding returns a copy that marshals in the given shape.
func (d Duration) WithEncoding(e Encoding) Duration {
	d.encoding = e
	return d
}

func (d Duration) String() string {
	h, m := d.minutes/60, d.minutes%60
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", m)
	case m == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh %dm", h, m)
	}
}

// Parse reads the string encoding: "Nh"/"Nm" tokens ("1h 30m", "1.5h",
// "45m") or an interval "HH:MM[:SS]".
func Parse(s string) (Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Duration{}, ErrInvalid
	}

	if m := intervalRe.FindStringSubmatch(s); m != nil {
		hours, err := strconv.Atoi(m[1])
		if err != nil || hours > MaxMinutes/60 {
			return Duration{}, ErrInvalid
		}
		minutes, _ := strconv.Atoi(m[2])
		return fromTotal(float64(hours*60+minutes), EncodingString)
	}

	if !tokensRe.MatchString(s) {
		return Duration{}, ErrInvalid
	}
	matches := tokenRe.FindAllStringSubmatch(s, -1)

	var total float64
	for _, m := range matches {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return Duration{}, ErrInvalid
		}
		if strings.EqualFold(m[2], "h") {
			total += v * 60
		} else {
			total += v
		}
	}

	return fromTotal(total, EncodingString)
}

// fromTotal rounds a minute count, rejecting values outside [0, MaxMinutes].
func fromTotal(total float64, enc Encoding) (Duration, error) {
	if math.IsNaN(total) || total < 0 || total > MaxMinutes {
		return Duration{}, ErrInvalid
	}
	return Duration{minutes: int(math.Round(total)), encoding: enc}, nil
}

type object struct {
	Hours   *float64 `json:"hours,omitempty"`
	Minutes *float64 `json:"minutes,omitempty"`
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return ErrInvalid
		}
		parsed, err := Parse(s)
		if err != nil {
			return err
		}
		*d = parsed
		return nil

	case '{':
		var o object
		if err := json.Unmarshal(data, &o); err != nil {
			return ErrInvalid
		}
		if o.Hours == nil && o.Minutes == nil {
			return ErrInvalid
		}
		var total float64
		if o.Hours != nil {
			total += *o.Hours * 60
		}
		if o.Minutes != nil {
			total += *o.Minutes
		}
		parsed, err := fromTotal(total, EncodingObject)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	}

	return ErrInvalid
}

func (d Duration) MarshalJSON() ([]byte, error) {
	if d.encoding == EncodingString {
		return json.Marshal(d.String())
	}
	return json.Marshal(struct {
		Hours   int `json:"hours"`
		Minutes int `json:"minutes"`
	}{d.minutes / 60, d.minutes % 60})
}

// GormDataType stores the value as an integer count of minutes.
func (Duration) GormDataType() string { return "integer" }

func (d Duration) Value() (driver.Value, error) {
	return int64(d.minutes), nil
}

func (d *Duration) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = Duration{}
	case int64:
		*d = Duration{minutes: int(v)}
	case int32:
		*d = Duration{minutes: int(v)}
	case int:
		*d = Duration{minutes: v}
	case float64:
		*d = Duration{minutes: int(math.Round(v))}
	case []byte:
		n, err := strconv.Atoi(string(v))
		if err != nil {
			return fmt.Errorf("scan duration: %w", err)
		}
		*d = Duration{minutes: n}
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("scan duration: %w", err)
		}
		*d = Duration{minutes: n}
	default:
		return fmt.Errorf("scan duration: unsupported type %T", src)
	}
	return nil
}
