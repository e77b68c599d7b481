package validation

import "testing"

func TestStringValidation(t *testing.T) {
	tests := []struct {
		name string
		v    *StringValidation
		want bool
	}{
		{"required empty", NewStringValidation(""), false},
		{"optional empty", NewStringValidation("").WithRequired(false), true},
		{"too long", NewStringValidation("abcdef").WithMaxLength(5), false},
		{"runes not bytes", NewStringValidation("çğüşö").WithMaxLength(5), true},
		{"too short", NewStringValidation("a").WithMinLength(2), false},
		{"pattern mismatch", NewStringValidation("CS 101").WithPattern(CompiledPatterns.CourseCode), false},
		{"pattern match", NewStringValidation("CS-101").WithPattern(CompiledPatterns.CourseCode), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.Validate(); got != tt.want {
				t.Fatalf("Validate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNumericValidationZeroBound(t *testing.T) {
	if NewNumericValidation(-1).WithMin(0).Validate() {
		t.Fatalf("-1 must fail a zero minimum")
	}
	if !NewNumericValidation(0).WithMin(0).Validate() {
		t.Fatalf("0 must pass a zero minimum")
	}
	if NewNumericValidation(11).WithMax(10).Validate() {
		t.Fatalf("11 must fail a maximum of 10")
	}
}

func TestIsEmail(t *testing.T) {
	for email, want := range map[string]bool{
		"ada@example.com":    true,
		"Ada.L@Example.ORG":  true,
		"not-an-email":       false,
		"missing@tld":        false,
		"spaces in@mail.com": false,
	} {
		if got := IsEmail(email); got != want {
			t.Errorf("IsEmail(%q) = %v, want %v", email, got, want)
		}
	}
}
