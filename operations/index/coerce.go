package index

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// EXIF_DATE_FORMAT is the layout for EXIF date strings and for the dates assigned to index records.
const EXIF_DATE_FORMAT string = "2006:01:02 15:04:05"

var exif_date_layouts = []string{
	EXIF_DATE_FORMAT,
	"2006:01:02 15:04:05Z07:00",
	"2006:01:02 15:04:05.999999999",
	"2006:01:02 15:04:05.999999999Z07:00",
}

// NormalizeDate returns v as an EXIF-formatted date string. Strings that can not be parsed
// as a date are returned verbatim. Empty and zero ("0000:00:00 00:00:00") dates are absent.
func NormalizeDate(v any) (any, bool) {

	str_dt := strings.TrimSpace(stringValue(v))

	if str_dt == "" || strings.HasPrefix(str_dt, "0000:00:00") {
		return nil, false
	}

	for _, layout := range exif_date_layouts {

		t, err := time.Parse(layout, str_dt)

		if err == nil {
			return t.Format(EXIF_DATE_FORMAT), true
		}
	}

	return str_dt, true
}

// ParseAltitude returns v as a number. String values like "1234.5 m" or
// "1234.5 m Above Sea Level" are parsed for their leading number.
func ParseAltitude(v any) (float64, error) {

	f, ok := floatValue(v)

	if ok {
		return f, nil
	}

	str_v, ok := v.(string)

	if !ok {
		return 0.0, fmt.Errorf("Invalid altitude type %T", v)
	}

	parts := strings.Fields(str_v)

	if len(parts) == 0 {
		return 0.0, fmt.Errorf("Empty altitude")
	}

	alt, err := strconv.ParseFloat(parts[0], 64)

	if err != nil {
		return 0.0, fmt.Errorf("Failed to parse altitude '%s', %w", str_v, err)
	}

	if strings.Contains(strings.ToLower(str_v), "below sea level") {
		alt = -alt
	}

	return alt, nil
}

// ParseCoordinate returns v as decimal degrees. v may be a number or a degrees, minutes,
// seconds string such as `34°12'3.00"` or `34 deg 12' 3.00" N`. A positive value is negated
// if ref (or a trailing hemisphere in v) is "S" or "W".
func ParseCoordinate(v any, ref any) (float64, error) {

	coord, ok := floatValue(v)

	hemisphere := strings.ToUpper(strings.TrimSpace(stringValue(ref)))

	if !ok {

		str_v, is_string := v.(string)

		if !is_string {
			return 0.0, fmt.Errorf("Invalid coordinate type %T", v)
		}

		c, h, err := parseDMS(str_v)

		if err != nil {
			return 0.0, err
		}

		coord = c

		if h != "" {
			hemisphere = h
		}
	}

	if coord > 0 && (strings.HasPrefix(hemisphere, "S") || strings.HasPrefix(hemisphere, "W")) {
		coord = -coord
	}

	return coord, nil
}

func parseDMS(str_v string) (float64, string, error) {

	sep := func(r rune) bool {
		switch r {
		case '°', '\'', '"', ' ', ',':
			return true
		default:
			return false
		}
	}

	numbers := make([]float64, 0)
	hemisphere := ""

	for _, token := range strings.FieldsFunc(str_v, sep) {

		switch strings.ToUpper(token) {
		case "DEG":
			continue
		case "N", "S", "E", "W":
			hemisphere = strings.ToUpper(token)
			continue
		}

		f, err := strconv.ParseFloat(token, 64)

		if err != nil {
			return 0.0, "", fmt.Errorf("Failed to parse coordinate '%s', %w", str_v, err)
		}

		numbers = append(numbers, f)
	}

	if len(numbers) == 0 || len(numbers) > 3 {
		return 0.0, "", fmt.Errorf("Invalid coordinate '%s'", str_v)
	}

	for len(numbers) < 3 {
		numbers = append(numbers, 0.0)
	}

	degrees := numbers[0]
	fraction := numbers[1]/60.0 + numbers[2]/3600.0

	if degrees < 0 || strings.HasPrefix(strings.TrimSpace(str_v), "-") {
		return degrees - fraction, hemisphere, nil
	}

	return degrees + fraction, hemisphere, nil
}

func floatValue(v any) (float64, bool) {

	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0.0, false
	}
}

func stringValue(v any) string {

	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprintf("%v", s)
	}
}
