package classify

import "testing"

func TestIsTransactionMessage(t *testing.T) {
	tests := []struct {
		name   string
		sender string
		body   string
		want   bool
	}{
		{
			name:   "bank debit alert",
			sender: "VM-HDFCBK",
			body:   "Rs.350.00 debited from A/c XX1234 at Swiggy via UPI Ref 123456789012",
			want:   true,
		},
		{
			name:   "upi credit alert",
			sender: "AD-SBIUPI",
			body:   "INR 1200 credited to your account. UPI Ref: 998877665544",
			want:   true,
		},
		{
			name:   "sender naming bank outright",
			sender: "MyBank Alerts",
			body:   "Rs.500 withdrawn at ATM",
			want:   true,
		},
		{
			name:   "phone number sender rejected",
			sender: "+919876543210",
			body:   "Rs.350.00 debited from A/c XX1234",
			want:   false,
		},
		{
			name:   "promo from bank shaped sender rejected",
			sender: "VM-HDFCBK",
			body:   "Get a pre-approved personal loan in 2 minutes! T&C apply.",
			want:   false,
		},
		{
			name:   "otp message rejected despite keyword",
			sender: "VM-HDFCBK",
			body:   "482910 is the OTP for your account. Do not share it.",
			want:   false,
		},
		{
			name:   "amount without keyword rejected",
			sender: "VM-HDFCBK",
			body:   "Rs.199 recharge offer ends tonight",
			want:   false,
		},
		{
			name:   "keyword and amount but personal sender",
			sender: "Amma",
			body:   "I paid Rs.500 for the groceries",
			want:   false,
		},
		{
			name:   "empty sender",
			sender: "",
			body:   "Rs.350.00 debited from A/c XX1234",
			want:   false,
		},
		{
			name:   "lowercase dlt prefix accepted",
			sender: "vm-icicib",
			body:   "Rs.100 debited via UPI Ref 123456789",
			want:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsTransactionMessage(tt.sender, tt.body); got != tt.want {
				t.Errorf("IsTransactionMessage(%q, %q) = %v, want %v", tt.sender, tt.body, got, tt.want)
			}
		})
	}
}

func TestSenderLooksTransactional(t *testing.T) {
	tests := []struct {
		sender string
		want   bool
	}{
		{"VM-HDFCBK", true},
		{"AX-ICICIB", true},
		{"JD-AXISBK", true},
		{"SBIUPI", true},
		{"Paytm Bank", true},
		{"+919876543210", false},
		{"Ravi", false},
		{"AB-12", true},
		{"", false},
	}

	for _, tt := range tests {
		if got := senderLooksTransactional(tt.sender); got != tt.want {
			t.Errorf("senderLooksTransactional(%q) = %v, want %v", tt.sender, got, tt.want)
		}
	}
}
