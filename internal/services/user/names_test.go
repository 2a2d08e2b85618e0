package user

import (
	"strings"
	"testing"
	"unicode"
)

func TestRandomFullNameShape(t *testing.T) {
	for i := 0; i < 100; i++ {
		name := RandomFullName()
		parts := strings.Split(name, " ")
		if len(parts) != 2 {
			t.Fatalf("expected two words, got %q", name)
		}
		for _, part := range parts {
			if part == "" || !unicode.IsUpper(rune(part[0])) {
				t.Fatalf("expected capitalized word, got %q", part)
			}
		}
		if len(name) > NameMaxLen {
			t.Fatalf("name %q exceeds %d characters", name, NameMaxLen)
		}
	}
}
