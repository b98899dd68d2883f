package order

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"unicode"
)

// ContactDigits strips everything but digits from a configured WhatsApp
// number. ok is false when fewer than 10 digits remain.
func ContactDigits(raw string) (digits string, ok bool) {
	digits = strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) && r < unicode.MaxASCII {
			return r
		}
		return -1
	}, raw)
	return digits, len(digits) >= 10
}

// EncodeMessage percent-encodes a message for a query value, with spaces as
// %20 so chat clients do not show literal plus signs.
func EncodeMessage(msg string) string {
	return strings.ReplaceAll(url.QueryEscape(msg), "+", "%20")
}

// WhatsAppHandoff turns a contact and a message into a wa.me deep link.
type WhatsAppHandoff struct {
	baseURL string
}

func NewWhatsAppHandoff(baseURL string) *WhatsAppHandoff {
	return &WhatsAppHandoff{baseURL: baseURL}
}

func (h *WhatsAppHandoff) Handoff(ctx context.Context, contact, message string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	digits, ok := ContactDigits(contact)
	if !ok {
		return "", ErrInvalidContact
	}

	base, err := url.Parse(h.baseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return "", fmt.Errorf("invalid whatsapp base url %q", h.baseURL)
	}

	return strings.TrimRight(base.String(), "/") + "/" + digits + "?text=" + EncodeMessage(message), nil
}
