package order

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContactDigits(t *testing.T) {
	tests := []struct {
		raw    string
		digits string
		ok     bool
	}{
		{"+55 (11) 98765-4321", "5511987654321", true},
		{"11987654321", "11987654321", true},
		{"1198765432", "1198765432", true},
		{"(11) 9876-543", "119876543", false},
		{"", "", false},
		{"whatsapp", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			digits, ok := ContactDigits(tt.raw)
			assert.Equal(t, tt.digits, digits)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestEncodeMessage_RoundTrips(t *testing.T) {
	msg := "*Pedido Loja X!*\n*Total:* R$ 41,00 & mais #1 ?a=b"

	enc := EncodeMessage(msg)
	assert.NotContains(t, enc, "+")
	assert.NotContains(t, enc, " ")
	assert.Contains(t, enc, "%20")

	dec, err := url.QueryUnescape(enc)
	require.NoError(t, err)
	assert.Equal(t, msg, dec)
}

func TestWhatsAppHandoff(t *testing.T) {
	h := NewWhatsAppHandoff("https://wa.me/")

	link, err := h.Handoff(context.Background(), "+55 (11) 98765-4321", "Olá mundo")
	require.NoError(t, err)
	assert.Equal(t, "https://wa.me/5511987654321?text=Ol%C3%A1%20mundo", link)

	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "Olá mundo", u.Query().Get("text"))
}

func TestWhatsAppHandoff_Errors(t *testing.T) {
	_, err := NewWhatsAppHandoff("https://wa.me").Handoff(context.Background(), "123", "x")
	assert.ErrorIs(t, err, ErrInvalidContact)

	_, err = NewWhatsAppHandoff("not a url").Handoff(context.Background(), "11987654321", "x")
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewWhatsAppHandoff("https://wa.me").Handoff(ctx, "11987654321", "x")
	assert.ErrorIs(t, err, context.Canceled)
}
