package http

import (
	"encoding/json"
	"net/http"

	"car-sales-agent/service"
)

type ChatHandler struct {
	llm *service.LLMService
}

func NewChatHandler(llm *service.LLMService) *ChatHandler {
	return &ChatHandler{llm: llm}
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Response string `json:"response"`
}

// Chat procesa un turno sin historial: el endpoint es sin estado, el
// contexto conversacional vive solo en el canal de WhatsApp.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {

	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Message == "" {
		http.Error(w, "mensaje requerido", http.StatusBadRequest)
		return
	}

	response := h.llm.ProcessMessage(r.Context(), req.Message, nil)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(chatResponse{Response: response})
}
