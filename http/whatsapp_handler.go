package http

import (
	"encoding/xml"
	"log"
	"net/http"
	"sync"

	"car-sales-agent/domain"
	"car-sales-agent/repository"
	"car-sales-agent/service"
	"car-sales-agent/whatsapp"
)

// WhatsAppHandler atiende el webhook entrante de Twilio. Los turnos de una
// misma identidad se serializan con un lock por número: el orquestador asume
// a lo más un turno en vuelo por identidad.
type WhatsAppHandler struct {
	llm           *service.LLMService
	conversations repository.ConversationRepository
	sender        *whatsapp.Sender
	turnLocks     sync.Map // número de teléfono -> *sync.Mutex
}

func NewWhatsAppHandler(
	llm *service.LLMService,
	conversations repository.ConversationRepository,
	sender *whatsapp.Sender,
) *WhatsAppHandler {
	return &WhatsAppHandler{
		llm:           llm,
		conversations: conversations,
		sender:        sender,
	}
}

type twimlResponse struct {
	XMLName xml.Name `xml:"Response"`
	Message string   `xml:"Message,omitempty"`
}

func (h *WhatsAppHandler) Webhook(w http.ResponseWriter, r *http.Request) {

	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form payload", http.StatusBadRequest)
		return
	}

	from := r.FormValue("From")
	body := r.FormValue("Body")
	if from == "" || body == "" {
		http.Error(w, "missing From or Body", http.StatusBadRequest)
		return
	}

	mu := h.lockFor(from)
	mu.Lock()
	defer mu.Unlock()

	// El historial se toma antes de agregar el mensaje entrante: el turno
	// en curso viaja aparte al orquestador.
	history := h.conversations.History(from)
	if err := h.conversations.Append(from, domain.Turn{Role: domain.RoleUser, Content: body}); err != nil {
		log.Printf("Warning: failed to append user turn for %s: %v", from, err)
	}

	response := h.llm.ProcessMessage(r.Context(), body, history)

	if err := h.conversations.Append(from, domain.Turn{Role: domain.RoleAssistant, Content: response}); err != nil {
		log.Printf("Warning: failed to append assistant turn for %s: %v", from, err)
	}

	// Con sender configurado la respuesta sale por la API REST y el
	// webhook regresa un sobre vacío; si no, va inline en el TwiML.
	if h.sender != nil && h.sender.Configured() {
		if err := h.sender.Send(from, response); err == nil {
			writeTwiML(w, twimlResponse{})
			return
		} else {
			log.Printf("Warning: outbound send to %s failed, replying inline: %v", from, err)
		}
	}
	writeTwiML(w, twimlResponse{Message: response})
}

func (h *WhatsAppHandler) lockFor(id string) *sync.Mutex {
	mu, _ := h.turnLocks.LoadOrStore(id, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

func writeTwiML(w http.ResponseWriter, resp twimlResponse) {
	w.Header().Set("Content-Type", "application/xml")

	data, err := xml.Marshal(resp)
	if err != nil {
		log.Printf("Error marshaling twiml response: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Write([]byte(xml.Header))
	w.Write(data)
}
