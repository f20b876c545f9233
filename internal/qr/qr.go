// Package qr renders contact cards as terminal QR codes.
package qr

import (
	"strings"

	"github.com/matheus3301/chatkit/internal/chat"
	qrcode "github.com/skip2/go-qrcode"
)

// VCard encodes a contact as a minimal vCard 3.0 document.
func VCard(c chat.Contact) string {
	var b strings.Builder
	b.WriteString("BEGIN:VCARD\r\nVERSION:3.0\r\n")
	b.WriteString("FN:" + escape(c.Name) + "\r\n")
	if c.Phone != "" {
		b.WriteString("TEL:" + escape(c.Phone) + "\r\n")
	}
	if c.Username != "" {
		b.WriteString("NICKNAME:" + escape(c.Username) + "\r\n")
	}
	if c.Bio != "" {
		b.WriteString("NOTE:" + escape(c.Bio) + "\r\n")
	}
	b.WriteString("UID:" + escape(c.ID) + "\r\n")
	b.WriteString("END:VCARD\r\n")
	return b.String()
}

var vcardEscaper = strings.NewReplacer(`\`, `\\`, ",", `\,`, ";", `\;`, "\n", `\n`)

func escape(s string) string { return vcardEscaper.Replace(s) }

// Render draws content as a QR code using half-block characters, two
// bitmap rows per output line. Each line is prefixed with indent.
func Render(content, indent string) (string, error) {
	code, err := qrcode.New(content, qrcode.Low)
	if err != nil {
		return "", err
	}
	bitmap := code.Bitmap()

	var sb strings.Builder
	for y := 0; y < len(bitmap); y += 2 {
		sb.WriteString(indent)
		for x := range bitmap[y] {
			top := bitmap[y][x]
			bot := y+1 < len(bitmap) && bitmap[y+1][x]
			switch {
			case top && bot:
				sb.WriteRune('█')
			case top:
				sb.WriteRune('▀')
			case bot:
				sb.WriteRune('▄')
			default:
				sb.WriteRune(' ')
			}
		}
		sb.WriteRune('\n')
	}
	return sb.String(), nil
}
