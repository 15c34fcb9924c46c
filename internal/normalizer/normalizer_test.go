package normalizer

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"slipnorm/internal/slip"
)

const scbEnglishSlip = `SCB
Successful transfer
02 Sep 2025 - 09:35
Ref ID: 2025090277mVUbbV49mBjwz9j
FROM   SCB  นาย พสุพล บุญแสน   xxx-xxx451-4
TO     (other bank logo)  PASUPOL BUNSA   x-6743
AMOUNT 1.00`

const scbThaiQRSlip = `SCB
จ่ายเงินสำเร็จ
01 ก.ย. 2568 - 08:36
รหัสอ้างอิง: 202509012QUQAMKcPYQwQyShc
จาก   SCB   นาย พสุพล บุญแสน   xxx-xxx451-4
ไปยัง  QR Payment at BTS
Biller ID : 010753600031501
รหัสร้านค้า : KB000001525759
รหัสธุรกรรม : APIC17566905442863UW
จำนวนเงิน 25.00`

const bblSlip = `Bangkok Bank / ธนาคารกรุงเทพ
รายการสำเร็จ
22 ส.ค. 68, 13:21
จำนวนเงิน 79.00 THB
จาก  นาย พสุพล  521-4-xxxx475
ธนาคารกรุงเทพ
ไปที่ นาย พสุพล บุญแสน 020-2-xxxx514
ธนาคารไทยพาณิชย์
ค่าธรรมเนียม 0.00 THB
หมายเลขอ้างอิง 390595
เลขที่อ้างอิง 2025082213214324009232008`

func TestNormalizeSCBEnglish(t *testing.T) {
	rec, err := New(nil).Normalize(scbEnglishSlip, "")
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if rec.BankFrom != "SCB" {
		t.Errorf("bank_from = %q, want SCB", rec.BankFrom)
	}
	if rec.Status != "Successful transfer" {
		t.Errorf("status = %q", rec.Status)
	}
	if rec.DateTimeText != "02 Sep 2025 - 09:35" {
		t.Errorf("date_time_text = %q", rec.DateTimeText)
	}
	if rec.DateTimeISO != "2025-09-02T09:35:00+07:00" {
		t.Errorf("date_time_iso = %q", rec.DateTimeISO)
	}
	if rec.From.Name != "นาย พสุพล บุญแสน" {
		t.Errorf("from.name = %q", rec.From.Name)
	}
	if rec.From.AccountNumber != "xxx-xxx451-4" {
		t.Errorf("from.account_number = %q", rec.From.AccountNumber)
	}
	if rec.To.Name != "PASUPOL BUNSA" || rec.To.AccountNumber != "x-6743" {
		t.Errorf("to = %+v", rec.To)
	}
	if rec.Amount != 1 {
		t.Errorf("amount = %v, want 1", rec.Amount)
	}
	if rec.Fee != 0 {
		t.Errorf("fee = %v, want 0", rec.Fee)
	}
	if rec.TransactionReference != "2025090277mVUbbV49mBjwz9j" {
		t.Errorf("transaction_reference = %q", rec.TransactionReference)
	}
	if rec.Currency != "THB" {
		t.Errorf("currency = %q, want THB", rec.Currency)
	}
}

func TestNormalizeSCBThaiQR(t *testing.T) {
	rec, err := New(nil).Normalize(scbThaiQRSlip, "")
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if rec.Status != "จ่ายเงินสำเร็จ" {
		t.Errorf("status = %q", rec.Status)
	}
	if rec.DateTimeISO != "2025-09-01T08:36:00+07:00" {
		t.Errorf("date_time_iso = %q (2568 BE must become 2025 AD)", rec.DateTimeISO)
	}
	if rec.To.Name != "QR Payment at BTS" {
		t.Errorf("to.name = %q", rec.To.Name)
	}
	if rec.To.BillerID != "010753600031501" ||
		rec.To.StoreCode != "KB000001525759" ||
		rec.To.TransactionCode != "APIC17566905442863UW" {
		t.Errorf("merchant codes = %+v", rec.To)
	}
	if rec.To.AccountNumber != "" || rec.BankTo != "" {
		t.Errorf("merchant QR payee must leave account and bank_to empty, got %q / %q",
			rec.To.AccountNumber, rec.BankTo)
	}
	if rec.Amount != 25 {
		t.Errorf("amount = %v, want 25", rec.Amount)
	}
	if rec.TransactionReference != "202509012QUQAMKcPYQwQyShc" {
		t.Errorf("transaction_reference = %q", rec.TransactionReference)
	}
}

func TestNormalizeBBL(t *testing.T) {
	rec, err := New(nil).Normalize(bblSlip, "")
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if rec.BankFrom != "BBL" {
		t.Errorf("bank_from = %q, want BBL", rec.BankFrom)
	}
	if rec.DateTimeISO != "2025-08-22T13:21:00+07:00" {
		t.Errorf("date_time_iso = %q (2-digit BE year)", rec.DateTimeISO)
	}
	if rec.From.Name != "นาย พสุพล" || rec.From.AccountNumber != "521-4-xxxx475" {
		t.Errorf("from = %+v", rec.From)
	}
	if rec.To.Name != "นาย พสุพล บุญแสน" || rec.To.AccountNumber != "020-2-xxxx514" {
		t.Errorf("to = %+v", rec.To)
	}
	if rec.BankTo != "SCB" {
		t.Errorf("bank_to = %q, want SCB", rec.BankTo)
	}
	if rec.Amount != 79 || rec.Fee != 0 {
		t.Errorf("amount/fee = %v/%v", rec.Amount, rec.Fee)
	}
	if rec.TransactionReference != "390595" {
		t.Errorf("transaction_reference = %q", rec.TransactionReference)
	}
	if rec.ReferenceNumber != "2025082213214324009232008" {
		t.Errorf("reference_number = %q", rec.ReferenceNumber)
	}
}

func TestNormalizeEmptyInputRejected(t *testing.T) {
	for _, in := range []string{"", "   ", "\n\t"} {
		if _, err := New(nil).Normalize(in, ""); !errors.Is(err, ErrEmptyInput) {
			t.Errorf("Normalize(%q) err = %v, want ErrEmptyInput", in, err)
		}
	}
}

func TestNormalizeUnresolvableBank(t *testing.T) {
	rec, err := New(nil).Normalize("nothing identifiable here 123", "")
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if rec.BankFrom != "" || rec.BankTo != "" {
		t.Errorf("generic profile must leave banks empty, got %q / %q", rec.BankFrom, rec.BankTo)
	}
}

func TestNormalizeBankHintOverridesResolution(t *testing.T) {
	rec, err := New(nil).Normalize("จำนวนเงิน 10.00", "BBL")
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if rec.BankFrom != "BBL" {
		t.Errorf("bank_from = %q, want hinted BBL", rec.BankFrom)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	n := New(nil)
	a, _ := n.Normalize(bblSlip, "")
	b, _ := n.Normalize(bblSlip, "")
	ja, _ := json.Marshal(a)
	jb, _ := json.Marshal(b)
	if string(ja) != string(jb) {
		t.Fatalf("normalization is not idempotent:\n%s\n%s", ja, jb)
	}
}

// Every valid input yields a fully defaulted record: schema validation
// rejects missing fields, so a freshly marshaled record must pass.
func TestNormalizeRecordValidatesAgainstSchema(t *testing.T) {
	for _, raw := range []string{scbEnglishSlip, scbThaiQRSlip, bblSlip, "no labels at all"} {
		rec, err := New(nil).Normalize(raw, "")
		if err != nil {
			t.Fatalf("Normalize: %v", err)
		}
		data, err := json.Marshal(rec)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if err := slip.ValidateRecordJSON(data); err != nil {
			t.Errorf("record fails schema: %v\n%s", err, data)
		}
	}
}

func TestNormalizeBatchIsolatesFailures(t *testing.T) {
	n := New(nil)
	inputs := []BatchInput{
		{RawText: scbEnglishSlip, FileName: "a.png"},
		{RawText: "   ", FileName: "b.png"},
		{RawText: bblSlip, FileName: "c.png"},
	}
	results := n.NormalizeBatch(context.Background(), inputs, 2)
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	if results[0].Err != nil || results[2].Err != nil {
		t.Fatalf("valid slips errored: %v / %v", results[0].Err, results[2].Err)
	}
	if !errors.Is(results[1].Err, ErrEmptyInput) {
		t.Fatalf("results[1].Err = %v, want ErrEmptyInput", results[1].Err)
	}
	if results[0].Record.BankFrom != "SCB" || results[2].Record.BankFrom != "BBL" {
		t.Fatalf("batch records out of order: %q, %q",
			results[0].Record.BankFrom, results[2].Record.BankFrom)
	}
	if results[1].FileName != "b.png" {
		t.Fatalf("file name not echoed: %q", results[1].FileName)
	}
}

func TestNormalizeBatchMatchesSingle(t *testing.T) {
	n := New(nil)
	single, _ := n.Normalize(scbThaiQRSlip, "")
	results := n.NormalizeBatch(context.Background(), []BatchInput{{RawText: scbThaiQRSlip}}, 0)
	if !reflect.DeepEqual(results[0].Record, single) {
		t.Fatalf("batch record differs from single-slip normalization")
	}
}
