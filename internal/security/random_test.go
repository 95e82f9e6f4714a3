package security

import "testing"

func TestRandomDigitsLengthAndCharset(t *testing.T) {
	for _, n := range []int{4, 6, 8} {
		code, err := RandomDigits(n)
		if err != nil {
			t.Fatalf("random digits: %v", err)
		}
		if len(code) != n {
			t.Fatalf("expected %d digits, got %q", n, code)
		}
		for _, c := range code {
			if c < '0' || c > '9' {
				t.Fatalf("non-digit %q in code %q", c, code)
			}
		}
	}
}

func TestRandomDigitsDefaultsToSix(t *testing.T) {
	code, err := RandomDigits(0)
	if err != nil {
		t.Fatalf("random digits: %v", err)
	}
	if len(code) != 6 {
		t.Fatalf("expected default length 6, got %q", code)
	}
}
