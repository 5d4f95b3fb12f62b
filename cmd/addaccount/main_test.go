package main

import "testing"

func TestValidateAccountId(t *testing.T) {
	valid := []string{"alice@example.com", "first.last+tag@sub.example.org"}
	invalid := []string{"", "alice", "alice@", "@example.com", "alice@example"}

	for _, id := range valid {
		if err := validateAccountId(id); err != nil {
			t.Errorf("validateAccountId(%q) unexpected error: %v", id, err)
		}
	}
	for _, id := range invalid {
		if err := validateAccountId(id); err == nil {
			t.Errorf("validateAccountId(%q) expected error", id)
		}
	}
}
