package ui

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWhatsAppLink_DefaultMessage(t *testing.T) {
	want := "https://wa.me/15551234567?text=Bonjour%2C%20je%20souhaite%20obtenir%20plus%20d'informations."
	assert.Equal(t, want, WhatsAppLink("15551234567", ""))
	assert.Equal(t, want, WhatsAppButton{Phone: "15551234567"}.Href())
}

func TestWhatsAppLink_CustomMessage(t *testing.T) {
	got := WhatsAppLink("+39 333", "Prix & horaires? (été) 100%")
	assert.Equal(t, "https://wa.me/+39 333?text=Prix%20%26%20horaires%3F%20(%C3%A9t%C3%A9)%20100%25", got)
}

func TestEncodeURIComponent(t *testing.T) {
	cases := map[string]string{
		"":                 "",
		"abcXYZ019":        "abcXYZ019",
		"-_.!~*'()":        "-_.!~*'()",
		"a b":              "a%20b",
		"/?#[]@$&+,;=:":    "%2F%3F%23%5B%5D%40%24%26%2B%2C%3B%3D%3A",
		"€":                "%E2%82%AC",
		"line\nbreak":      "line%0Abreak",
	}
	for in, want := range cases {
		assert.Equal(t, want, encodeURIComponent(in), "input %q", in)
	}
}

func TestWhatsAppButton_Render(t *testing.T) {
	out := render(t, context.Background(), WhatsAppButton{Phone: "15551234567"})

	assert.Contains(t, out, `href="https://wa.me/15551234567?text=Bonjour%2C%20je%20souhaite%20obtenir%20plus%20d&#39;informations."`)
	assert.Contains(t, out, `target="_blank"`)
	assert.Contains(t, out, `rel="noopener noreferrer"`)
}

func TestWhatsAppButton_EscapesPhone(t *testing.T) {
	out := render(t, context.Background(), WhatsAppButton{Phone: `1"><script>`})

	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "&#34;&gt;&lt;script&gt;")
}
