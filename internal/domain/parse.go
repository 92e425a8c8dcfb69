package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// fieldCount is the number of whitespace-separated fields in a data line.
const fieldCount = 8

var (
	// dateRe matches a YYYYMMDD date token, e.g. "20230101".
	dateRe = regexp.MustCompile(`^(\d{4})(\d{2})(\d{2})$`)

	// timeRe matches an HHMMSS.mmm time token, e.g. "120000.000".
	timeRe = regexp.MustCompile(`^(\d{2})(\d{2})(\d{2})\.(\d{3})$`)
)

// ErrMalformedLine is wrapped by every *ParseError.
var ErrMalformedLine = errors.New("malformed feed line")

// ParseError reports the first feed line that could not be parsed.
type ParseError struct {
	Line   int // 1-based line number in the feed, header included
	Text   string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse feed line %d: %s: %q", e.Line, e.Reason, e.Text)
	}
	return fmt.Sprintf("parse feed line: %s: %q", e.Reason, e.Text)
}

func (e *ParseError) Unwrap() error { return ErrMalformedLine }

// ParseFeed converts raw feed text into records in feed order. The header line
// and blank lines are skipped. Parsing stops at the first malformed line and
// no partial result is returned. A nil loc means the process-local zone.
func ParseFeed(text string, loc *time.Location) ([]Quake, error) {
	lines := strings.Split(text, "\n")
	if len(lines) <= 1 {
		return []Quake{}, nil
	}

	quakes := make([]Quake, 0, len(lines)-1)
	for i, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		q, err := ParseLine(line, loc)
		if err != nil {
			var pe *ParseError
			if errors.As(err, &pe) {
				pe.Line = i + 2
			}
			return nil, err
		}
		quakes = append(quakes, q)
	}
	return quakes, nil
}

// ParseLine parses a single data line. The returned error is a *ParseError
// with Line left at zero.
func ParseLine(line string, loc *time.Location) (Quake, error) {
	if loc == nil {
		loc = time.Local
	}

	fields := strings.Fields(line)
	if len(fields) != fieldCount {
		return Quake{}, lineError(line, fmt.Sprintf("expected %d fields, got %d", fieldCount, len(fields)))
	}

	id, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return Quake{}, lineError(line, fmt.Sprintf("invalid id %q", fields[0]))
	}

	occurredAt, err := parseDateTime(fields[1], fields[2], loc)
	if err != nil {
		return Quake{}, lineError(line, err.Error())
	}

	names := [...]string{"lat", "long", "depth", "m", "ml"}
	var values [len(names)]float64
	for i, name := range names {
		v, err := strconv.ParseFloat(fields[3+i], 64)
		if err != nil {
			return Quake{}, lineError(line, fmt.Sprintf("invalid %s %q", name, fields[3+i]))
		}
		values[i] = v
	}

	return Quake{
		ID:             id,
		OccurredAt:     occurredAt,
		Lat:            values[0],
		Lng:            values[1],
		Depth:          values[2],
		Magnitude:      values[3],
		LocalMagnitude: values[4],
	}, nil
}

// parseDateTime combines a YYYYMMDD date and an HHMMSS.mmm time in loc.
func parseDateTime(date, clock string, loc *time.Location) (time.Time, error) {
	d := dateRe.FindStringSubmatch(date)
	if d == nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYYMMDD", date)
	}
	c := timeRe.FindStringSubmatch(clock)
	if c == nil {
		return time.Time{}, fmt.Errorf("invalid time %q, want HHMMSS.mmm", clock)
	}

	// The regexps guarantee every group is all digits.
	year, month, day := atoi(d[1]), atoi(d[2]), atoi(d[3])
	hour, minute, second, ms := atoi(c[1]), atoi(c[2]), atoi(c[3]), atoi(c[4])

	return time.Date(year, time.Month(month), day, hour, minute, second, ms*int(time.Millisecond), loc), nil
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func lineError(line, reason string) error {
	return &ParseError{Text: line, Reason: reason}
}
