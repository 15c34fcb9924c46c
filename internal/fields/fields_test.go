package fields

import (
	"testing"

	"slipnorm/internal/profile"
	"slipnorm/internal/segment"
	"slipnorm/internal/slip"
)

func extract(raw string, p *profile.Profile) slip.Record {
	return Extract(segment.Split(raw, p), p)
}

func scb() *profile.Profile      { return profile.DefaultSet().Resolve("successful transfer") }
func bbl() *profile.Profile      { return profile.DefaultSet().Resolve("รายการสำเร็จ") }
func krungsri() *profile.Profile { return profile.DefaultSet().Resolve("ชำระเงินสำเร็จ") }

func TestSenderMaskedAccountPreserved(t *testing.T) {
	rec := extract("Successful transfer\nFROM SCB นาย พสุพล บุญแสน xxx-xxx451-4", scb())
	if rec.From.AccountNumber != "xxx-xxx451-4" {
		t.Fatalf("from.account_number = %q, want verbatim xxx-xxx451-4", rec.From.AccountNumber)
	}
	if rec.From.Name != "นาย พสุพล บุญแสน" {
		t.Fatalf("from.name = %q", rec.From.Name)
	}
}

func TestRecipientPeerTransfer(t *testing.T) {
	raw := `รายการสำเร็จ
ไปที่ นาย พสุพล บุญแสน 020-2-xxxx514
ธนาคารไทยพาณิชย์`
	rec := extract(raw, bbl())
	if rec.To.Name != "นาย พสุพล บุญแสน" {
		t.Fatalf("to.name = %q", rec.To.Name)
	}
	if rec.To.AccountNumber != "020-2-xxxx514" {
		t.Fatalf("to.account_number = %q", rec.To.AccountNumber)
	}
	if rec.BankTo != "SCB" {
		t.Fatalf("bank_to = %q, want SCB", rec.BankTo)
	}
}

func TestRecipientMerchantDisambiguation(t *testing.T) {
	raw := `จ่ายเงินสำเร็จ
ไปยัง QR Payment at BTS
Biller ID : 010753600031501
รหัสร้านค้า : KB000001525759
รหัสธุรกรรม : APIC17566905442863UW`
	rec := extract(raw, scb())
	if rec.To.Name != "QR Payment at BTS" {
		t.Fatalf("to.name = %q", rec.To.Name)
	}
	if rec.To.BillerID != "010753600031501" {
		t.Fatalf("to.biller_id = %q", rec.To.BillerID)
	}
	if rec.To.StoreCode != "KB000001525759" {
		t.Fatalf("to.store_code = %q", rec.To.StoreCode)
	}
	if rec.To.TransactionCode != "APIC17566905442863UW" {
		t.Fatalf("to.transaction_code = %q", rec.To.TransactionCode)
	}
	// Merchant payee: no account, no recipient bank.
	if rec.To.AccountNumber != "" || rec.BankTo != "" {
		t.Fatalf("merchant recipient must have empty account and bank_to, got %q / %q",
			rec.To.AccountNumber, rec.BankTo)
	}
}

func TestAmountAndFeeParsing(t *testing.T) {
	cases := []struct {
		name       string
		raw        string
		wantAmount float64
		wantFee    float64
	}{
		{"plain", "AMOUNT 1.00", 1, 0},
		{"thousands and currency", "จำนวนเงิน 3,500.00 THB\nค่าธรรมเนียม 0.00 THB", 3500, 0},
		{"baht word", "จำนวนเงิน 79.00 บาท", 79, 0},
		{"missing fee defaults to zero", "จำนวนเงิน 25.00", 25, 0},
		{"missing amount defaults to zero", "ค่าธรรมเนียม 5.00", 0, 5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := extract(tc.raw, scb())
			if rec.Amount != tc.wantAmount {
				t.Errorf("amount = %v, want %v", rec.Amount, tc.wantAmount)
			}
			if rec.Fee != tc.wantFee {
				t.Errorf("fee = %v, want %v", rec.Fee, tc.wantFee)
			}
		})
	}
}

func TestReferencePrecedence(t *testing.T) {
	raw := `รายการสำเร็จ
หมายเลขอ้างอิง 390595
เลขที่อ้างอิง 2025082213214324009232008`
	rec := extract(raw, bbl())
	if rec.TransactionReference != "390595" {
		t.Fatalf("transaction_reference = %q, want 390595", rec.TransactionReference)
	}
	if rec.ReferenceNumber != "2025082213214324009232008" {
		t.Fatalf("reference_number = %q", rec.ReferenceNumber)
	}
	if rec.ReferenceCode != "" {
		t.Fatalf("reference_code = %q, want empty", rec.ReferenceCode)
	}
}

func TestSingleReferenceIsAlwaysPrimary(t *testing.T) {
	rec := extract("Successful transfer\nRef ID: 2025090277mVUbbV49mBjwz9j", scb())
	if rec.TransactionReference != "2025090277mVUbbV49mBjwz9j" {
		t.Fatalf("transaction_reference = %q", rec.TransactionReference)
	}
}

func TestKrungsriMultipleReferences(t *testing.T) {
	raw := `ชำระเงินสำเร็จ
หมายเลขอ้างอิง 1
2000122774887
หมายเลขอ้างอิง 2
0311915695287
Info
Krungsri Auto
หมายเลขอ้างอิง
BAYM4534971496`
	rec := extract(raw, krungsri())
	if rec.TransactionReference != "2000122774887" {
		t.Fatalf("transaction_reference = %q", rec.TransactionReference)
	}
	if rec.ReferenceNumber != "0311915695287" {
		t.Fatalf("reference_number = %q", rec.ReferenceNumber)
	}
	if rec.ReferenceCode != "BAYM4534971496" {
		t.Fatalf("reference_code = %q", rec.ReferenceCode)
	}
}

func TestPositionalParties(t *testing.T) {
	raw := `กรุงศรี / krungsri (logo)
ชำระเงินสำเร็จ
30 ส.ค. 2568 12:11:36
PASUPOL BUNSA
XXX-1-68674-X
บมจ.อยุธยา แคปปิตอล ออโต้ ลีส
XXX-0-15191-X
จำนวนเงิน 3,500.00 THB`
	rec := extract(raw, krungsri())
	if rec.From.Name != "PASUPOL BUNSA" || rec.From.AccountNumber != "XXX-1-68674-X" {
		t.Fatalf("from = %+v", rec.From)
	}
	if rec.To.Name != "บมจ.อยุธยา แคปปิตอล ออโต้ ลีส" || rec.To.AccountNumber != "XXX-0-15191-X" {
		t.Fatalf("to = %+v", rec.To)
	}
	if rec.BankTo != "" {
		t.Fatalf("bank_to = %q, want empty for a loan payee", rec.BankTo)
	}
}

func TestStatusKeptVerbatim(t *testing.T) {
	rec := extract("จ่ายเงินสำเร็จ\nจำนวนเงิน 25.00", scb())
	if rec.Status != "จ่ายเงินสำเร็จ" {
		t.Fatalf("status = %q", rec.Status)
	}
}

func TestDecorativeParenthesesIgnored(t *testing.T) {
	rec := extract("Successful transfer\nTO (other bank logo) PASUPOL BUNSA x-6743", scb())
	if rec.To.Name != "PASUPOL BUNSA" {
		t.Fatalf("to.name = %q", rec.To.Name)
	}
	if rec.To.AccountNumber != "x-6743" {
		t.Fatalf("to.account_number = %q", rec.To.AccountNumber)
	}
}
