// Package whatsapp builds click-to-chat links and the message texts the
// seller sends to buyers and to the group.
package whatsapp

import (
	"strings"
)

const (
	chatBaseURL  = "https://wa.me/"
	shareBaseURL = "https://api.whatsapp.com/send?text="
)

// CleanPhone keeps only the digits of a phone number
func CleanPhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ChatLink opens a chat with phone, pre-filled with text
func ChatLink(phone, text string) string {
	return chatBaseURL + CleanPhone(phone) + "?text=" + EncodeComponent(text)
}

// ShareLink lets the user pick a chat or group to send text to
func ShareLink(text string) string {
	return shareBaseURL + EncodeComponent(text)
}

// EncodeComponent percent-encodes s the way browsers encode a URI
// component: everything except A-Z a-z 0-9 and -_.!~*'() is escaped
// byte by byte, spaces included.
func EncodeComponent(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	b.Grow(len(s) * 3)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func unreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'()", c) >= 0
}
