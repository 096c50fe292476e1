package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes characters and drops combining marks, so "é" becomes "e".
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Make turns free text into a URL-safe slug: lowercase, diacritics stripped,
// runs of non [a-z0-9] collapsed to a single hyphen, leading/trailing hyphens
// trimmed. Total and deterministic; all-punctuation input yields "", which
// callers must treat as invalid.
func Make(text string) string {
	plain, _, err := transform.String(stripMarks, text)
	if err != nil {
		plain = text
	}
	plain = strings.ToLower(plain)

	var b strings.Builder
	b.Grow(len(plain))
	pendingHyphen := false
	for _, r := range plain {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}
