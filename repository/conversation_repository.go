package repository

import "car-sales-agent/domain"

// DefaultMaxTurns limita el historial por identidad para acotar el contexto
// enviado al modelo. Los turnos más viejos se descartan primero.
const DefaultMaxTurns = 10

// ConversationRepository guarda el historial de conversación por identidad
// (número de teléfono, id de sesión, etc.), acotado a los N turnos más
// recientes. La conversación se crea implícitamente con el primer Append.
type ConversationRepository interface {
	// History devuelve los turnos en orden de llegada. Una identidad
	// desconocida devuelve un historial vacío.
	History(id string) []domain.Turn
	Append(id string, turn domain.Turn) error
	Clear(id string) error
}
