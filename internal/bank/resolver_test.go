package bank

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		sender string
		want   string
	}{
		{"VM-HDFCBK", "HDFCBK"},
		{"AD-SBIUPI", "SBIUPI"},
		{"vm-hdfcbk", "HDFCBK"},
		{"QP-AXISBK", "AXISBK"}, // generic two-letter prefix
		{"HDFCBK", "HDFCBK"},
		{"  JD-ICICIB  ", "ICICIB"},
		{"+919876543210", "+919876543210"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Normalize(tt.sender); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.sender, got, tt.want)
		}
	}
}

func TestResolver_BuiltinExact(t *testing.T) {
	r, err := NewResolver()
	if err != nil {
		t.Fatalf("NewResolver() error = %v", err)
	}

	tests := []struct {
		sender   string
		wantCode string
		wantName string
	}{
		{"VM-HDFCBK", "HDFC", "HDFC Bank"},
		{"AD-SBIUPI", "SBI", "State Bank of India"},
		{"AX-ICICIB", "ICICI", "ICICI Bank"},
		{"BW-AXISBK", "AXIS", "Axis Bank"},
	}

	for _, tt := range tests {
		identity, ok := r.Resolve(tt.sender)
		if !ok {
			t.Errorf("Resolve(%q) not found", tt.sender)
			continue
		}
		if identity.Code != tt.wantCode || identity.Name != tt.wantName {
			t.Errorf("Resolve(%q) = %+v, want {%s %s}", tt.sender, identity, tt.wantCode, tt.wantName)
		}
	}
}

func TestResolver_SubstringFallback(t *testing.T) {
	r, err := NewResolver()
	if err != nil {
		t.Fatalf("NewResolver() error = %v", err)
	}

	// "HDFCBANK" is not a directory key but contains the key "HDFCB".
	identity, ok := r.Resolve("VM-HDFCBANK")
	if !ok {
		t.Fatal("Resolve(VM-HDFCBANK) not found, want substring hit")
	}
	if identity.Code != "HDFC" {
		t.Errorf("Resolve(VM-HDFCBANK).Code = %s, want HDFC", identity.Code)
	}
}

func TestResolver_UnknownSender(t *testing.T) {
	r, err := NewResolver()
	if err != nil {
		t.Fatalf("NewResolver() error = %v", err)
	}

	if identity, ok := r.Resolve("XY-UNRECOGNIZED"); ok {
		t.Errorf("Resolve(XY-UNRECOGNIZED) = %+v, want not found", identity)
	}
	if _, ok := r.Resolve(""); ok {
		t.Error("Resolve(\"\") succeeded, want not found")
	}
}

func TestResolver_CustomBeatsBuiltin(t *testing.T) {
	r, err := NewResolver()
	if err != nil {
		t.Fatalf("NewResolver() error = %v", err)
	}

	if err := r.RegisterCustom("VM-HDFCBK", "MYBANK", "My Bank"); err != nil {
		t.Fatalf("RegisterCustom() error = %v", err)
	}

	identity, ok := r.Resolve("VM-HDFCBK")
	if !ok {
		t.Fatal("Resolve after RegisterCustom not found")
	}
	if identity.Code != "MYBANK" || identity.Name != "My Bank" {
		t.Errorf("Resolve() = %+v, want custom entry to win", identity)
	}
}

func TestResolver_RegisterCustomOverwritesSameKey(t *testing.T) {
	r, err := NewResolver()
	if err != nil {
		t.Fatalf("NewResolver() error = %v", err)
	}

	if err := r.RegisterCustom("NEWBNK", "A", "Bank A"); err != nil {
		t.Fatal(err)
	}
	if err := r.RegisterCustom("NEWBNK", "B", "Bank B"); err != nil {
		t.Fatal(err)
	}

	identity, ok := r.Resolve("NEWBNK")
	if !ok {
		t.Fatal("Resolve(NEWBNK) not found")
	}
	if identity.Code != "B" {
		t.Errorf("Resolve(NEWBNK).Code = %s, want B (later registration wins)", identity.Code)
	}
}

func TestResolver_RegisterCustomValidation(t *testing.T) {
	r, err := NewResolver()
	if err != nil {
		t.Fatalf("NewResolver() error = %v", err)
	}

	if err := r.RegisterCustom("", "A", "Bank A"); err == nil {
		t.Error("RegisterCustom with empty key expected error")
	}
	if err := r.RegisterCustom("KEY", "", "Bank A"); err == nil {
		t.Error("RegisterCustom with empty code expected error")
	}
	if err := r.RegisterCustom("KEY", "A", ""); err == nil {
		t.Error("RegisterCustom with empty name expected error")
	}
}

func TestColorForCode(t *testing.T) {
	if got := ColorForCode("HDFC"); got != "#004C8F" {
		t.Errorf("ColorForCode(HDFC) = %s, want #004C8F", got)
	}
	if got := ColorForCode("NOSUCH"); got != defaultColor {
		t.Errorf("ColorForCode(NOSUCH) = %s, want default %s", got, defaultColor)
	}
}
