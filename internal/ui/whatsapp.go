package ui

import (
	"context"
	"html"
	"html/template"
	"io"
	"strings"
)

const (
	// WhatsAppBaseURL is the click-to-chat endpoint.
	WhatsAppBaseURL = "https://wa.me/"
	// DefaultWhatsAppMessage pre-fills the chat when no message is given.
	DefaultWhatsAppMessage = "Bonjour, je souhaite obtenir plus d'informations."
)

// WhatsAppLink builds the click-to-chat URL. The phone number is used
// verbatim.
func WhatsAppLink(phone, message string) string {
	if message == "" {
		message = DefaultWhatsAppMessage
	}
	return WhatsAppBaseURL + phone + "?text=" + encodeURIComponent(message)
}

// WhatsAppButton is the floating contact link.
type WhatsAppButton struct {
	Phone   string
	Message string
}

// Href returns the link target.
func (b WhatsAppButton) Href() string {
	return WhatsAppLink(b.Phone, b.Message)
}

type whatsAppView struct {
	Href template.HTMLAttr
}

func (b WhatsAppButton) Render(_ context.Context, w io.Writer) error {
	// html/template would re-normalize the URL and escape the apostrophes
	// the link keeps unencoded.
	attr := template.HTMLAttr(`href="` + html.EscapeString(b.Href()) + `"`)
	return execute(w, "whatsapp_button", whatsAppView{Href: attr})
}

const upperhex = "0123456789ABCDEF"

// encodeURIComponent escapes s the way browsers do for a URI component:
// every UTF-8 byte outside A-Z a-z 0-9 - _ . ! ~ * ' ( ) is percent-encoded.
func encodeURIComponent(s string) string {
	var b strings.Builder
	b.Grow(len(s) * 3)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if uriUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}

func uriUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}
