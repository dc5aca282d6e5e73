package domain

import (
	"testing"
	"unicode/utf8"
)

// FuzzParseCaseID checks that parsing never panics and that accepted input
// always round-trips.
func FuzzParseCaseID(f *testing.F) {
	f.Add("")
	f.Add("550e8400-e29b-41d4-a716-446655440000")
	f.Add("00000000-0000-0000-0000-000000000000")
	f.Add("not-a-uuid")
	f.Add("'; DROP TABLE cases;--")
	f.Add(string([]byte{0x00, 0x01, 0x02}))

	f.Fuzz(func(t *testing.T, input string) {
		id, err := ParseCaseID(input)
		if err != nil {
			return
		}
		again, err := ParseCaseID(id.String())
		if err != nil || again != id {
			t.Errorf("accepted id failed round-trip: %q", input)
		}
		if !utf8.ValidString(input) {
			t.Error("non-UTF8 input was accepted")
		}
	})
}
