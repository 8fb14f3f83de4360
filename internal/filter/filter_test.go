package filter

import "testing"

func TestAllowedRejectsSystemAccounts(t *testing.T) {
	f := New(DefaultConfig())
	for _, user := range []string{"-", "DWM-1", "UMFD-0", "USER", "xUSERx", "verylonguser"} {
		if f.Allowed(user) {
			t.Errorf("expected %q to be rejected", user)
		}
	}
}

func TestAllowedAcceptsShortUsers(t *testing.T) {
	f := New(DefaultConfig())
	for _, user := range []string{"alice", "bob", "a", "12345678", "user"} {
		if !f.Allowed(user) {
			t.Errorf("expected %q to be accepted", user)
		}
	}
}

func TestAllowedLengthBoundary(t *testing.T) {
	f := New(DefaultConfig())
	if !f.Allowed("abcdefgh") {
		t.Fatal("8-character user must pass")
	}
	if f.Allowed("abcdefghi") {
		t.Fatal("9-character user must be rejected")
	}
}

func TestAllowedCustomConfig(t *testing.T) {
	f := New(Config{MaxLength: 3, Sentinel: "n/a", Blocklist: []string{"svc"}})
	if f.Allowed("n/a") {
		t.Fatal("custom sentinel must be rejected")
	}
	if f.Allowed("svc") {
		t.Fatal("custom blocklist entry must be rejected")
	}
	if f.Allowed("abcd") {
		t.Fatal("custom max length must apply")
	}
	if !f.Allowed("bob") {
		t.Fatal("bob should pass the custom filter")
	}
	// "-" is only special as the default sentinel
	if !f.Allowed("-") {
		t.Fatal("'-' is not the sentinel in this config")
	}
}
