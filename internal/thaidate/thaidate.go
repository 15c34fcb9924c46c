// Package thaidate parses the heterogeneous date-time strings printed on
// Thai bank slips (Thai or English month names, Buddhist Era years, Thai
// numerals, 2-digit years) into ISO-8601 with a fixed +07:00 offset.
//
// Parsing is total: malformed input never returns an error, it degrades to
// an empty ISO string with low confidence, and the caller keeps the
// verbatim source text.
package thaidate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Confidence qualifies a normalization result.
type Confidence int

const (
	Low Confidence = iota
	High
)

// Convention carries the per-profile rules that disambiguate year tokens.
type Convention struct {
	// TwoDigitYearBE reads a bare 2-digit year as Buddhist Era
	// (Thai-first layouts); otherwise it is read as 20xx Gregorian.
	TwoDigitYearBE bool
}

// Result of a normalization attempt. ISO is empty when the input could not
// be confidently parsed.
type Result struct {
	ISO        string
	Confidence Confidence
}

var thaiDigits = strings.NewReplacer(
	"๐", "0", "๑", "1", "๒", "2", "๓", "3", "๔", "4",
	"๕", "5", "๖", "6", "๗", "7", "๘", "8", "๙", "9",
)

// months maps every accepted month token (lowercased, trailing dot
// stripped) to its number. Thai abbreviations, Thai full names, English
// abbreviations and English full names.
var months = map[string]int{
	"ม.ค": 1, "มกราคม": 1, "jan": 1, "january": 1,
	"ก.พ": 2, "กุมภาพันธ์": 2, "feb": 2, "february": 2,
	"มี.ค": 3, "มีนาคม": 3, "mar": 3, "march": 3,
	"เม.ย": 4, "เมษายน": 4, "apr": 4, "april": 4,
	"พ.ค": 5, "พฤษภาคม": 5, "may": 5,
	"มิ.ย": 6, "มิถุนายน": 6, "jun": 6, "june": 6,
	"ก.ค": 7, "กรกฎาคม": 7, "jul": 7, "july": 7,
	"ส.ค": 8, "สิงหาคม": 8, "aug": 8, "august": 8,
	"ก.ย": 9, "กันยายน": 9, "sep": 9, "september": 9,
	"ต.ค": 10, "ตุลาคม": 10, "oct": 10, "october": 10,
	"พ.ย": 11, "พฤศจิกายน": 11, "nov": 11, "november": 11,
	"ธ.ค": 12, "ธันวาคม": 12, "dec": 12, "december": 12,
}

var (
	timeRe  = regexp.MustCompile(`(\d{1,2}):(\d{2})(?::(\d{2}))?`)
	isoRe   = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)
	slashRe = regexp.MustCompile(`^(\d{1,2})[/.](\d{1,2})[/.](\d{2,4})$`)
	wordRe  = regexp.MustCompile(`^(\d{1,2})\s+(\S+)\s+(?:พ\.ศ\.\s*)?(\d{2,4})$`)
)

// Looks reports whether a line plausibly carries a slip date-time. Used by
// the extractor to pick the date line out of unlabeled text.
func Looks(line string) bool {
	return Normalize(line, Convention{}).ISO != "" ||
		Normalize(line, Convention{TwoDigitYearBE: true}).ISO != ""
}

// Normalize parses a raw date-time string into ISO-8601 with a literal
// +07:00 offset. Seconds default to 00 when the source omits them.
func Normalize(raw string, conv Convention) Result {
	s := thaiDigits.Replace(strings.TrimSpace(raw))
	if s == "" {
		return Result{Confidence: Low}
	}

	hour, minute, second := 0, 0, 0
	if m := timeRe.FindStringSubmatchIndex(s); m != nil {
		sub := timeRe.FindStringSubmatch(s)
		hour, _ = strconv.Atoi(sub[1])
		minute, _ = strconv.Atoi(sub[2])
		if sub[3] != "" {
			second, _ = strconv.Atoi(sub[3])
		}
		s = s[:m[0]] + s[m[1]:]
	}
	if hour > 23 || minute > 59 || second > 59 {
		return Result{Confidence: Low}
	}

	// What remains is the civil date, possibly with separator leftovers
	// like "02 Sep 2025 - " or "22 ส.ค. 68, ".
	s = strings.Trim(s, " \t-–,|")
	s = strings.Join(strings.Fields(s), " ")

	day, month, year, ok := parseCivil(s, conv)
	if !ok {
		return Result{Confidence: Low}
	}

	// Reject impossible dates such as 31 Feb.
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return Result{Confidence: Low}
	}

	iso := fmt.Sprintf("%04d-%02d-%02dT%02d:%02d:%02d+07:00",
		year, month, day, hour, minute, second)
	return Result{ISO: iso, Confidence: High}
}

func parseCivil(s string, conv Convention) (day, month, year int, ok bool) {
	if m := isoRe.FindStringSubmatch(s); m != nil {
		year, _ = strconv.Atoi(m[1])
		month, _ = strconv.Atoi(m[2])
		day, _ = strconv.Atoi(m[3])
		return day, month, normalizeYear(year, false, conv), month >= 1 && month <= 12
	}
	if m := slashRe.FindStringSubmatch(s); m != nil {
		day, _ = strconv.Atoi(m[1])
		month, _ = strconv.Atoi(m[2])
		year, _ = strconv.Atoi(m[3])
		return day, month, normalizeYear(year, false, conv), month >= 1 && month <= 12
	}
	if m := wordRe.FindStringSubmatch(s); m != nil {
		day, _ = strconv.Atoi(m[1])
		month, monthOK := lookupMonth(m[2])
		if !monthOK {
			return 0, 0, 0, false
		}
		year, _ = strconv.Atoi(m[3])
		thaiMonth := m[2] != strings.Map(dropThai, m[2])
		return day, month, normalizeYear(year, thaiMonth, conv), true
	}
	return 0, 0, 0, false
}

func dropThai(r rune) rune {
	if r >= 0x0E00 && r <= 0x0E7F {
		return -1
	}
	return r
}

func lookupMonth(token string) (int, bool) {
	t := strings.ToLower(strings.TrimSuffix(strings.TrimSpace(token), "."))
	if m, ok := months[t]; ok {
		return m, true
	}
	if n, err := strconv.Atoi(t); err == nil && n >= 1 && n <= 12 {
		return n, true
	}
	return 0, false
}

// normalizeYear converts year tokens to Gregorian. A 4-digit year further
// than 50 years past the current one is taken as Buddhist Era (AD = BE -
// 543). Bare 2-digit years follow the profile convention, except that a
// Thai month token always implies a Thai-calendar slip.
func normalizeYear(y int, thaiContext bool, conv Convention) int {
	switch {
	case y >= 1000:
		if y > time.Now().Year()+50 {
			return y - 543
		}
		return y
	case y < 100:
		if conv.TwoDigitYearBE || thaiContext {
			return 2500 + y - 543
		}
		return 2000 + y
	default:
		return y
	}
}
