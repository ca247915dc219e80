package accounts

import (
	"regexp"
	"strings"
)

// Nicknames allow Latin and Cyrillic letters, whitespace, and hyphens.
var nicknameRx = regexp.MustCompile(`^[A-Za-zА-Яа-яёЁ\s\-]+$`)

// RFC-shaped address check, anchored for full matches.
var emailRx = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,7}$`)

// BioDenylist holds the forbidden words scanned for in bios. Matches are
// detected case-insensitively as substrings.
var BioDenylist = []string{"труп", "скам", "мошенник"}

// bioDenylistMatch returns the first denylisted word found in text.
func bioDenylistMatch(text string) (string, bool) {
	lowered := strings.ToLower(text)
	for _, word := range BioDenylist {
		if strings.Contains(lowered, word) {
			return word, true
		}
	}
	return "", false
}

// IsValidEmail reports whether the address is RFC shaped.
func IsValidEmail(email string) bool {
	return emailRx.MatchString(email)
}
