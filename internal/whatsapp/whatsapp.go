// Package whatsapp builds wa.me deep links for outbound messages.
package whatsapp

import (
	"net/url"
	"strings"
)

// Digits strips everything but digits from a stored phone number.
func Digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Link builds a wa.me deep link carrying a pre-filled message. The number
// must already be digits-only; bare DDD+number gets the Brazilian country
// code prefixed.
func Link(number, text string) string {
	return "https://wa.me/" + withCountryCode(number) + "?text=" + encode(text)
}

// encode percent-encodes the message body. url.QueryEscape uses the
// application/x-www-form-urlencoded space ("+"), which messaging clients do
// not decode inside deep links, so spaces are re-encoded as %20.
func encode(text string) string {
	return strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
}

// withCountryCode prefixes the Brazilian country code when the stored number
// is a bare DDD+number. Numbers already carrying 55 are left alone.
func withCountryCode(digits string) string {
	if len(digits) <= 11 && !strings.HasPrefix(digits, "55") {
		return "55" + digits
	}
	return digits
}
