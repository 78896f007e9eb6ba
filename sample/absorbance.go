package sample

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Absorbance maps a wavelength label ("665.2") to its reading in AU.
//
// Decoding never fails on a reading: numbers and numeric strings are taken
// as is, anything else becomes 0.
type Absorbance map[string]float64

func (a *Absorbance) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if raw == nil {
		*a = nil
		return nil
	}

	values := make(Absorbance, len(raw))
	for wl, v := range raw {
		values[strings.TrimSpace(wl)] = coerce(v)
	}
	*a = values
	return nil
}

func coerce(v any) float64 {
	switch value := v.(type) {
	case float64:
		return finite(value)
	case string:
		return ParseReading(value)
	default:
		return 0
	}
}

// numericPrefix matches the leading decimal number of a reading.
var numericPrefix = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// ParseReading converts a typed or uploaded reading. A decimal comma is
// accepted and trailing text after the number is ignored ("0.5 AU" is
// 0.5); blank or non-numeric input yields 0.
func ParseReading(s string) float64 {
	s = strings.TrimSpace(strings.Replace(s, ",", ".", 1))
	number := numericPrefix.FindString(s)
	if number == "" {
		return 0
	}

	v, err := strconv.ParseFloat(number, 64)
	if err != nil {
		return 0
	}
	return finite(v)
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
