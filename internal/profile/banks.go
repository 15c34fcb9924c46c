package profile

import (
	"regexp"
	"strings"
)

// bankSubstrings maps Thai and long-form English bank names to the fixed
// short-code set. Checked as case-insensitive substrings, longest first,
// so "ธนาคารกรุงเทพ" is tried before any shorter variant.
var bankSubstrings = []struct {
	token string
	code  string
}{
	{"government savings bank", "GSB"},
	{"ธนาคารทหารไทยธนชาต", "TTB"},
	{"ธนาคารกรุงศรีอยุธยา", "Krungsri"},
	{"ธนาคารไทยพาณิชย์", "SCB"},
	{"ธนาคารกสิกรไทย", "KBank"},
	{"ทีเอ็มบีธนชาต", "TTB"},
	{"ทหารไทยธนชาต", "TTB"},
	{"กรุงศรีอยุธยา", "Krungsri"},
	{"bank of ayudhya", "Krungsri"},
	{"siam commercial", "SCB"},
	{"ธนาคารกรุงเทพ", "BBL"},
	{"ธนาคารกรุงไทย", "Krungthai"},
	{"ธนาคารออมสิน", "GSB"},
	{"kasikornbank", "KBank"},
	{"bangkok bank", "BBL"},
	{"ไทยพาณิชย์", "SCB"},
	{"กสิกรไทย", "KBank"},
	{"krungthai", "Krungthai"},
	{"krungsri", "Krungsri"},
	{"กสิกร", "KBank"},
	{"กรุงไทย", "Krungthai"},
	{"กรุงศรี", "Krungsri"},
	{"ออมสิน", "GSB"},
	{"kasikorn", "KBank"},
}

// Short ASCII codes need a word boundary so "scb" inside an unrelated
// token does not count as a bank name.
var bankWordRe = regexp.MustCompile(`(?i)\b(scb|bbl|ttb|gsb|kbank|ktb)\b`)

var bankWordCodes = map[string]string{
	"scb":   "SCB",
	"bbl":   "BBL",
	"ttb":   "TTB",
	"gsb":   "GSB",
	"kbank": "KBank",
	"ktb":   "Krungthai",
}

// CanonicalBank maps a free-text bank name or logo token to its canonical
// short code. Unrecognized input yields "" — never a guess.
func CanonicalBank(s string) string {
	lower := strings.ToLower(strings.TrimSpace(s))
	if lower == "" {
		return ""
	}
	for _, e := range bankSubstrings {
		if strings.Contains(lower, e.token) {
			return e.code
		}
	}
	if m := bankWordRe.FindString(lower); m != "" {
		return bankWordCodes[strings.ToLower(m)]
	}
	return ""
}
