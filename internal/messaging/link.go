package messaging

import "strings"

const upperhex = "0123456789ABCDEF"

// EncodeComponent percent-encodes s like JavaScript's encodeURIComponent:
// every UTF-8 byte outside A-Z a-z 0-9 and -_.!~*'() becomes %XX.
//
// url.QueryEscape is not a substitute; it turns spaces into '+' and escapes
// !*'().
func EncodeComponent(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}

func unreserved(c byte) bool {
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

// Link returns the chat deep link that opens a pre-filled message to
// recipient: <base>/<recipient>?text=<encoded>.
func Link(base, recipient, text string) string {
	return strings.TrimRight(base, "/") + "/" + recipient + "?text=" + EncodeComponent(text)
}
