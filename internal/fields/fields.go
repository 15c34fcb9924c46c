// Package fields applies per-bank extraction rules to segmented slip
// blocks: sender/recipient party parsing, merchant-vs-peer recipient
// disambiguation, amount and fee parsing, and reference precedence.
// Every function here is a pure transformation; missing data becomes the
// field's default value, never an error.
package fields

import (
	"regexp"
	"strconv"
	"strings"

	"slipnorm/internal/profile"
	"slipnorm/internal/segment"
	"slipnorm/internal/slip"
	"slipnorm/internal/thaidate"
)

// maskedAccountRe matches masked (or dashed) account tokens such as
// "xxx-xxx451-4", "521-4-xxxx475", "XXX-1-68674-X" or "x-6743". The match
// is kept byte-for-byte; masking characters are never reinterpreted.
var maskedAccountRe = regexp.MustCompile(`(?i)\b[x\d]+(?:-[x\d]+)+\b`)

// parenRe drops decorative parentheticals like "(other bank logo)".
var parenRe = regexp.MustCompile(`\([^)]*\)`)

// amountRe picks the first money-looking number out of a block.
var amountRe = regexp.MustCompile(`\d[\d,]*(?:\.\d+)?`)

// refTokenRe matches a plausible reference value: alphanumeric, at least
// four characters. A digit check on top filters ordinals and prose.
var refTokenRe = regexp.MustCompile(`[A-Za-z0-9]{4,}`)

// Extract populates a new record from segmented blocks under the given
// profile's rules.
func Extract(blocks *segment.Blocks, p *profile.Profile) slip.Record {
	rec := slip.NewRecord()
	rec.BankFrom = p.Code

	if st := blocks.Get(profile.FieldStatus); st != nil {
		rec.Status = st.Label
	}

	extractDate(&rec, blocks, p)
	extractParties(&rec, blocks, p)
	extractMerchant(&rec, blocks)
	rec.Amount = parseMoney(blocks.Get(profile.FieldAmount))
	rec.Fee = parseMoney(blocks.Get(profile.FieldFee))
	extractRefs(&rec, blocks, p)

	if qr := blocks.Get(profile.FieldQRCode); qr != nil {
		rec.QRCode = strings.TrimSpace(qr.Text)
	}
	return rec
}

// extractDate finds the first unlabeled line that parses as a date-time.
// The verbatim line is always kept; the ISO form only when parsing is
// confident.
func extractDate(rec *slip.Record, blocks *segment.Blocks, p *profile.Profile) {
	conv := thaidate.Convention{TwoDigitYearBE: p.TwoDigitYearBE}
	for _, line := range blocks.Unlabeled {
		if !thaidate.Looks(line) {
			continue
		}
		rec.DateTimeText = line
		if res := thaidate.Normalize(line, conv); res.Confidence == thaidate.High {
			rec.DateTimeISO = res.ISO
		}
		return
	}
}

func extractParties(rec *slip.Record, blocks *segment.Blocks, p *profile.Profile) {
	if from := blocks.Get(profile.FieldFrom); from != nil {
		name, acct, _ := parseParty(from.Lines)
		rec.From.Name, rec.From.AccountNumber = name, acct
	}
	if to := blocks.Get(profile.FieldTo); to != nil {
		name, acct, bank := parseParty(to.Lines)
		rec.To.Name, rec.To.AccountNumber = name, acct
		rec.BankTo = bank
	}

	if p.PositionalParties {
		positionalParties(rec, blocks)
	}
}

// positionalParties fills sender then recipient from bare name/account
// line pairs when the layout prints no FROM/TO labels (Krungsri).
func positionalParties(rec *slip.Record, blocks *segment.Blocks) {
	type pair struct{ name, acct string }
	var pairs []pair
	var lastName string
	for _, line := range blocks.Unlabeled {
		if thaidate.Looks(line) {
			continue
		}
		clean := strings.Join(strings.Fields(parenRe.ReplaceAllString(line, " ")), " ")
		if clean == "" {
			continue
		}
		if acct := trailingAccount(clean); acct != "" && acct == clean {
			if lastName != "" {
				pairs = append(pairs, pair{lastName, acct})
				lastName = ""
			}
			continue
		}
		if profile.CanonicalBank(clean) != "" && !strings.ContainsAny(clean, "0123456789") {
			continue
		}
		lastName = clean
	}

	if rec.From.Name == "" && rec.From.AccountNumber == "" && len(pairs) > 0 {
		rec.From.Name, rec.From.AccountNumber = pairs[0].name, pairs[0].acct
	}
	if rec.To.Name == "" && rec.To.AccountNumber == "" && len(pairs) > 1 {
		rec.To.Name, rec.To.AccountNumber = pairs[1].name, pairs[1].acct
	}
}

// extractMerchant applies the disambiguation rule: any biller-code label in
// the recipient area classifies the payment as merchant/QR. The recipient
// account stays empty unless a masked token was explicitly present, and
// bank_to is cleared — a merchant payee is not a bank-to-bank transfer.
func extractMerchant(rec *slip.Record, blocks *segment.Blocks) {
	biller := blocks.Get(profile.FieldBillerID)
	store := blocks.Get(profile.FieldStoreCode)
	txn := blocks.Get(profile.FieldTransactionCode)
	if biller == nil && store == nil && txn == nil {
		return
	}
	rec.To.BillerID = firstToken(biller)
	rec.To.StoreCode = firstToken(store)
	rec.To.TransactionCode = firstToken(txn)
	rec.BankTo = ""
}

func firstToken(b *segment.Block) string {
	if b == nil {
		return ""
	}
	fs := strings.Fields(b.Text)
	if len(fs) == 0 {
		return ""
	}
	return fs[0]
}

// parseParty reads a labeled sender/recipient block: the trailing masked
// account token comes off the first line, the rest is the name. A leading
// bank token (e.g. "SCB" in "FROM SCB นาย ...") or a bank-name line below
// the name identifies the party's bank.
func parseParty(lines []string) (name, account, bank string) {
	for _, line := range lines {
		clean := strings.Join(strings.Fields(parenRe.ReplaceAllString(line, " ")), " ")
		if clean == "" {
			continue
		}

		if acct := trailingAccount(clean); acct != "" {
			if account == "" {
				account = acct
			}
			clean = strings.TrimSpace(strings.TrimSuffix(clean, acct))
		}
		if clean == "" {
			continue
		}

		if name != "" {
			// A bank name printed under the recipient line.
			if code := profile.CanonicalBank(clean); code != "" && bank == "" {
				bank = code
			}
			continue
		}

		clean, bank = stripLeadingBank(clean, bank)
		name = clean
	}
	return name, account, bank
}

// trailingAccount returns the masked account token ending the line, if any.
func trailingAccount(line string) string {
	all := maskedAccountRe.FindAllString(line, -1)
	if len(all) == 0 {
		return ""
	}
	last := all[len(all)-1]
	if !strings.HasSuffix(line, last) || !strings.ContainsAny(last, "0123456789") {
		return ""
	}
	return last
}

// stripLeadingBank removes a leading bank token from a party line and
// returns its canonical code. The single first word is tried before the
// two-word form ("Bangkok Bank"), so "SCB นาย ..." strips only "SCB".
func stripLeadingBank(line, bank string) (string, string) {
	fs := strings.Fields(line)
	for n := 1; n <= 2; n++ {
		if len(fs) <= n {
			continue
		}
		head := strings.Join(fs[:n], " ")
		if code := profile.CanonicalBank(head); code != "" {
			if bank == "" {
				bank = code
			}
			return strings.Join(fs[n:], " "), bank
		}
	}
	return line, bank
}

// parseMoney strips currency decoration (THB, ฿, บาท, thousands commas)
// and parses the first number in the block as a non-negative THB value.
// Absent or unparseable blocks yield 0 — never inferred from other fields.
func parseMoney(b *segment.Block) float64 {
	if b == nil {
		return 0
	}
	s := strings.NewReplacer("฿", " ", ",", "", "บาท", " ").Replace(b.Text)
	m := amountRe.FindString(s)
	if m == "" {
		return 0
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// extractRefs fills the three reference slots. The profile's primary
// labels decide which occurrence wins transaction_reference; remaining
// references fill reference_number then reference_code in order of
// appearance. A single reference always becomes transaction_reference.
func extractRefs(rec *slip.Record, blocks *segment.Blocks, p *profile.Profile) {
	type ref struct {
		label string
		value string
	}
	var refs []ref
	for _, b := range blocks.Refs {
		if v := refValue(b); v != "" {
			refs = append(refs, ref{label: b.Label, value: v})
		}
	}
	if len(refs) == 0 {
		return
	}

	primary := 0
	for i, r := range refs {
		if p.IsPrimaryRef(r.label) {
			primary = i
			break
		}
	}
	rec.TransactionReference = refs[primary].value

	secondary := []*string{&rec.ReferenceNumber, &rec.ReferenceCode}
	si := 0
	for i, r := range refs {
		if i == primary || si >= len(secondary) {
			continue
		}
		*secondary[si] = r.value
		si++
	}
}

// refValue picks the first plausible reference token out of a reference
// block: alphanumeric, at least four characters, containing a digit. This
// skips ordinals like the "1" in "หมายเลขอ้างอิง 1" and prose such as
// "Info".
func refValue(b *segment.Block) string {
	for _, tok := range refTokenRe.FindAllString(b.Text, -1) {
		if strings.ContainsAny(tok, "0123456789") {
			return tok
		}
	}
	return ""
}
