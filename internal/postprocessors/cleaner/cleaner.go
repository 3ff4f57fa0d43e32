// Package cleaner normalises extracted document text before indexing.
package cleaner

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MinLineLength is the shortest line, in characters, kept by Clean.
const MinLineLength = 3

// passengerPattern matches "Passenger: <name>", optionally preceded by a
// label in another language and a slash ("Passageiro / Passenger: ...").
var passengerPattern = regexp.MustCompile(`(?:[A-Za-zÀ-ÿ]+\s*/\s*)?Passenger:\s*([A-Za-zÀ-ÿ ]+)`)

// Clean replaces underscores with spaces, trims every line, drops lines
// shorter than MinLineLength and collapses runs of whitespace to one space.
// Clean(Clean(s)) == Clean(s).
func Clean(raw string) string {
	raw = strings.ReplaceAll(raw, "_", " ")

	lines := strings.Split(raw, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if utf8.RuneCountInString(line) < MinLineLength {
			continue
		}
		kept = append(kept, strings.Join(strings.Fields(line), " "))
	}

	return strings.Join(kept, "\n")
}

// ExtractPassengerName returns the first passenger name found in text.
func ExtractPassengerName(text string) (string, bool) {
	m := passengerPattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	name := strings.TrimSpace(m[1])
	if name == "" {
		return "", false
	}
	return name, true
}
