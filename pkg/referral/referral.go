// Package referral derives the case identifier and archive filename for an
// interagency referral, and composes the referral letter sent to the
// receiving organization. Everything here is pure: no I/O, no clock reads,
// no persistence of client data.
package referral

import (
	"regexp"
	"strings"
	"time"
	"unicode"
)

// cityPattern matches the settlement marker in an address: "м. <Name>" or
// "с. <Name>", accepting both the Cyrillic markers and the Latin lookalike
// "c." that appears in hand-typed data.
var cityPattern = regexp.MustCompile(`[мсc]\.\s*([А-Яа-яІіЇїЄєA-Za-z]+)`)

var nonDigits = regexp.MustCompile(`\D`)

// GenerateCaseID derives a short case code from client data:
// uppercased initials of the first two name tokens, then the digits of the
// date of birth, then one uppercased city letter.
//
// The city letter comes from the settlement marker when present, otherwise
// from the first character of the address; an empty address yields the
// literal placeholder "X". Deterministic for identical input.
func GenerateCaseID(fullName, dateOfBirth, address string) string {
	var b strings.Builder

	parts := strings.Fields(fullName)
	if len(parts) > 0 {
		b.WriteRune(firstRuneUpper(parts[0]))
	}
	if len(parts) > 1 {
		b.WriteRune(firstRuneUpper(parts[1]))
	}

	b.WriteString(nonDigits.ReplaceAllString(dateOfBirth, ""))

	cityLetter := "X"
	if m := cityPattern.FindStringSubmatch(address); m != nil {
		cityLetter = string(firstRuneUpper(m[1]))
	} else if trimmed := strings.TrimSpace(address); trimmed != "" {
		cityLetter = string(firstRuneUpper(trimmed))
	}
	b.WriteString(cityLetter)

	return b.String()
}

func firstRuneUpper(s string) rune {
	for _, r := range s {
		return unicode.ToUpper(r)
	}
	return 0
}

// unsafeFilenameChars are replaced with underscores so the archive name is
// filesystem-safe: whitespace and double quotes.
var unsafeFilenameChars = regexp.MustCompile(`["\s]`)

// ArchiveFilename builds the descriptive name under which a referral form
// copy is archived: <region>_<ISO date>_<organization name>.
func ArchiveFilename(region, organizationName string, date time.Time) string {
	if region == "" {
		region = "Region"
	}
	sanitized := unsafeFilenameChars.ReplaceAllString(organizationName, "_")
	return region + "_" + date.Format("2006-01-02") + "_" + sanitized
}
