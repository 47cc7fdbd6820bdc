package domain

// Roles de los turnos de una conversación.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn es un turno de conversación: quién habló y qué dijo.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
