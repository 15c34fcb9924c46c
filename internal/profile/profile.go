// Package profile holds the static per-bank extraction configuration:
// bilingual label dictionaries, bank-name canonicalization, reference
// precedence and date-era conventions. Profiles are built once at process
// start and are read-only afterwards, so they are safe for concurrent use.
package profile

import (
	"sort"
	"strings"
)

// Field identifies the canonical slip field a label anchors.
type Field int

const (
	FieldStatus Field = iota
	FieldFrom
	FieldTo
	FieldAmount
	FieldFee
	FieldReference
	FieldBillerID
	FieldStoreCode
	FieldTransactionCode
	FieldQRCode
)

// Label maps one Thai or English label variant to its canonical field.
type Label struct {
	Text  string
	Field Field
}

// Profile is the extraction configuration for one bank layout.
type Profile struct {
	// Code is the canonical short code recorded as bank_from.
	// Empty for the generic fallback profile.
	Code string
	Name string

	// Labels is the label dictionary, sorted longest-first so that the
	// segmenter's greedy prefix match prefers "จำนวนเงิน" over "จำนวน".
	Labels []Label

	// PrimaryRefLabels name the reference labels whose value wins
	// transaction_reference when several references are present.
	PrimaryRefLabels []string

	// TwoDigitYearBE controls how a bare 2-digit year is read: Buddhist
	// Era for Thai-first layouts (BBL, Krungsri), Gregorian otherwise.
	TwoDigitYearBE bool

	// PositionalParties enables the fallback for layouts that print
	// sender and recipient as bare name/account line pairs with no
	// FROM/TO labels (Krungsri).
	PositionalParties bool

	detectTokens []string
}

// sharedLabels are understood by every profile on top of its own set.
var sharedLabels = []Label{
	{"from", FieldFrom},
	{"จาก", FieldFrom},
	{"to", FieldTo},
	{"ไปยัง", FieldTo},
	{"ไปที่", FieldTo},
	{"ผู้รับเงิน", FieldTo},
	{"ผู้รับ", FieldTo},
	{"amount", FieldAmount},
	{"จำนวนเงิน", FieldAmount},
	{"จำนวน", FieldAmount},
	{"fee", FieldFee},
	{"ค่าธรรมเนียม", FieldFee},
	{"reference no.", FieldReference},
	{"ref no.", FieldReference},
	{"ref id", FieldReference},
	{"reference", FieldReference},
	{"รหัสอ้างอิง", FieldReference},
	{"หมายเลขอ้างอิง", FieldReference},
	{"เลขที่อ้างอิง", FieldReference},
	{"เลขอ้างอิง", FieldReference},
	{"biller id", FieldBillerID},
	{"รหัสร้านค้า", FieldStoreCode},
	{"รหัสธุรกรรม", FieldTransactionCode},
	{"qr code", FieldQRCode},
}

func newProfile(code, name string, labels []Label, primaryRefs, detect []string) *Profile {
	p := &Profile{
		Code:             code,
		Name:             name,
		PrimaryRefLabels: primaryRefs,
		detectTokens:     detect,
	}
	p.Labels = append(p.Labels, labels...)
	p.Labels = append(p.Labels, sharedLabels...)
	sort.SliceStable(p.Labels, func(i, j int) bool {
		return len(p.Labels[i].Text) > len(p.Labels[j].Text)
	})
	return p
}

// IsPrimaryRef reports whether a matched reference label should win the
// transaction_reference slot for this profile.
func (p *Profile) IsPrimaryRef(labelText string) bool {
	lt := strings.ToLower(labelText)
	for _, l := range p.PrimaryRefLabels {
		if lt == strings.ToLower(l) {
			return true
		}
	}
	return false
}

// Set is the full collection of supported profiles in resolution order.
type Set struct {
	ordered []*Profile
	generic *Profile
}

// DefaultSet builds the supported bank profiles: SCB, BBL, Krungsri and a
// generic fallback, resolved in that order.
func DefaultSet() *Set {
	scb := newProfile("SCB", "Siam Commercial Bank",
		[]Label{
			{"successful transfer", FieldStatus},
			{"จ่ายเงินสำเร็จ", FieldStatus},
			{"โอนเงินสำเร็จ", FieldStatus},
		},
		[]string{"ref id", "รหัสอ้างอิง"},
		[]string{"จ่ายเงินสำเร็จ", "successful transfer", "siam commercial", "scb"},
	)

	bbl := newProfile("BBL", "Bangkok Bank",
		[]Label{
			{"รายการสำเร็จ", FieldStatus},
			{"successful transaction", FieldStatus},
		},
		[]string{"หมายเลขอ้างอิง", "ref no."},
		[]string{"รายการสำเร็จ", "successful transaction", "bangkok bank", "ธนาคารกรุงเทพ"},
	)
	bbl.TwoDigitYearBE = true

	krungsri := newProfile("Krungsri", "Bank of Ayudhya",
		[]Label{
			{"ชำระเงินสำเร็จ", FieldStatus},
			{"successful payment", FieldStatus},
			{"ผู้ชำระ", FieldFrom},
			{"ผู้โอน", FieldFrom},
		},
		[]string{"หมายเลขอ้างอิง"},
		[]string{"ชำระเงินสำเร็จ", "successful payment", "krungsri", "กรุงศรี", "bank of ayudhya"},
	)
	krungsri.TwoDigitYearBE = true
	krungsri.PositionalParties = true

	generic := newProfile("", "Generic",
		[]Label{
			{"สำเร็จ", FieldStatus},
			{"successful", FieldStatus},
		},
		nil,
		nil,
	)

	return &Set{ordered: []*Profile{scb, bbl, krungsri}, generic: generic}
}

// Generic returns the fallback profile.
func (s *Set) Generic() *Profile { return s.generic }

// Resolve scans raw slip text for bank-identifying substrings and returns
// the first matching profile in priority order, or the generic profile
// when nothing matches. Matching is case-insensitive and side-effect free.
func (s *Set) Resolve(rawText string) *Profile {
	lower := strings.ToLower(rawText)
	for _, p := range s.ordered {
		for _, tok := range p.detectTokens {
			if strings.Contains(lower, tok) {
				return p
			}
		}
	}
	return s.generic
}

// ByCode returns the profile for an explicit bank hint. Hints are matched
// against the short code and the English name, case-insensitively; an
// unknown hint returns nil so the caller can fall back to Resolve.
func (s *Set) ByCode(hint string) *Profile {
	h := strings.ToLower(strings.TrimSpace(hint))
	if h == "" {
		return nil
	}
	for _, p := range s.ordered {
		if h == strings.ToLower(p.Code) || h == strings.ToLower(p.Name) {
			return p
		}
	}
	if h == "generic" || h == "other" {
		return s.generic
	}
	return nil
}
