package whatsapp

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDigits(t *testing.T) {
	require.Equal(t, "11987654321", Digits("(11) 98765-4321"))
	require.Equal(t, "", Digits("sem número"))
}

func TestLink(t *testing.T) {
	link := Link("11987654321", "Olá, tudo bem?")
	require.Equal(t, "https://wa.me/5511987654321?text=Ol%C3%A1%2C%20tudo%20bem%3F", link)

	u, err := url.Parse(link)
	require.NoError(t, err)
	require.Equal(t, "Olá, tudo bem?", u.Query().Get("text"))
}

func TestLinkCountryCode(t *testing.T) {
	require.Contains(t, Link("11987654321", "x"), "wa.me/5511987654321")
	require.Contains(t, Link("5511987654321", "x"), "wa.me/5511987654321")
	// 55 is also a valid DDD (Santa Maria); short numbers starting with it
	// are left untouched
	require.Contains(t, Link("5533334444", "x"), "wa.me/5533334444")
}
