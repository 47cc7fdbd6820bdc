// Package whatsapp envía mensajes salientes por la API REST de Twilio.
package whatsapp

import (
	"fmt"
	"strings"

	"github.com/twilio/twilio-go"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// Twilio rechaza cuerpos de más de 1600 caracteres.
const maxBodyLength = 1600

// Sender es un cliente de envío de WhatsApp. Con credenciales vacías queda
// deshabilitado y el webhook responde solo por TwiML.
type Sender struct {
	client     *twilio.RestClient
	from       string
	configured bool
}

// NewSender crea el cliente. Cualquier credencial vacía lo deja sin
// configurar en lugar de fallar.
func NewSender(accountSID, authToken, phoneNumber string) *Sender {
	if accountSID == "" || authToken == "" || phoneNumber == "" {
		return &Sender{}
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &Sender{
		client:     client,
		from:       phoneNumber,
		configured: true,
	}
}

// Configured reporta si hay credenciales para enviar mensajes salientes.
func (s *Sender) Configured() bool {
	return s.configured
}

// Send entrega un mensaje de WhatsApp a to (número E.164, con o sin el
// prefijo whatsapp:). Cuerpos demasiado largos se truncan.
func (s *Sender) Send(to, body string) error {
	if !s.configured {
		return fmt.Errorf("whatsapp sender not configured")
	}

	if len(body) > maxBodyLength {
		body = body[:maxBodyLength-3] + "..."
	}

	toAddr := withWhatsAppPrefix(to)
	fromAddr := withWhatsAppPrefix(s.from)

	params := &twilioapi.CreateMessageParams{}
	params.SetTo(toAddr)
	params.SetFrom(fromAddr)
	params.SetBody(body)

	if _, err := s.client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("failed to send whatsapp message: %w", err)
	}
	return nil
}

func withWhatsAppPrefix(number string) string {
	if strings.HasPrefix(number, "whatsapp:") {
		return number
	}
	return "whatsapp:" + number
}
