package domain

import "strings"

// UnknownAuthor replaces an author the upstream sent as an empty string.
const UnknownAuthor = "Unknown"

// SanitizeAuthor maps an upstream author to its display value.
// Absent stays absent, "" becomes UnknownAuthor, anything else passes through.
func SanitizeAuthor(raw Optional) Optional {
	author, ok := raw.Get()
	if !ok {
		return Absent()
	}
	if author == "" {
		return Some(UnknownAuthor)
	}
	return raw
}

// SanitizeText deletes every '@' from the quote text. Nothing is inserted in
// its place, so "a @ b" becomes "a  b". Absent stays absent.
func SanitizeText(raw Optional) Optional {
	text, ok := raw.Get()
	if !ok {
		return Absent()
	}
	return Some(strings.ReplaceAll(text, "@", ""))
}

// Sanitize turns an upstream payload into a displayable Quote.
func Sanitize(raw RawQuote) Quote {
	return Quote{
		Author: SanitizeAuthor(raw.Author),
		Text:   SanitizeText(raw.Quote),
	}
}
