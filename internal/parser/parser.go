// Package parser turns raw producer lines into metric samples.
//
// The wire protocol is UTF-8 text lines of the form
//
//	key1=value1;key2=value2;...
//
// with an optional trailing separator. Keys are any run of characters
// excluding '=' and ';'. Values are floating-point literals.
// Non-conforming tokens are ignored without signaling an error.
package parser

import (
	"strconv"
	"strings"
	"time"

	"github.com/kvplot/kvplot/internal/series"
)

// Parse extracts zero or more samples from one line of input.
// Every sample parsed from the line shares the single capture
// timestamp at. Malformed tokens are dropped silently; a bad token
// never aborts processing of its siblings on the same line.
func Parse(line string, at time.Time) []series.Sample {
	var samples []series.Sample

	for _, token := range strings.Split(line, ";") {
		name, value, ok := parseToken(token)
		if !ok {
			continue
		}
		samples = append(samples, series.Sample{
			Name:  name,
			Value: value,
			At:    at,
		})
	}

	return samples
}

// parseToken splits one key=value token. Reports ok=false for tokens
// missing '=', with an empty key, or with a non-numeric value.
func parseToken(token string) (name string, value float64, ok bool) {
	key, rest, found := strings.Cut(token, "=")
	if !found {
		return "", 0, false
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return "", 0, false
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(rest), 64)
	if err != nil {
		return "", 0, false
	}

	return key, value, true
}
