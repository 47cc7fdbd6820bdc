package whatsapp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSender_MissingCredentials(t *testing.T) {
	tests := []struct {
		name              string
		sid, token, phone string
	}{
		{name: "all empty"},
		{name: "no token", sid: "AC123", phone: "+5215500000000"},
		{name: "no phone", sid: "AC123", token: "secret"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := NewSender(tt.sid, tt.token, tt.phone)
			assert.False(t, sender.Configured())

			err := sender.Send("whatsapp:+5215512345678", "hola")
			require.Error(t, err)
			assert.Contains(t, err.Error(), "not configured")
		})
	}
}

func TestNewSender_Configured(t *testing.T) {
	sender := NewSender("AC123", "secret", "+5215500000000")
	assert.True(t, sender.Configured())
}

func TestWithWhatsAppPrefix(t *testing.T) {
	assert.Equal(t, "whatsapp:+5215512345678", withWhatsAppPrefix("+5215512345678"))
	assert.Equal(t, "whatsapp:+5215512345678", withWhatsAppPrefix("whatsapp:+5215512345678"))
}
