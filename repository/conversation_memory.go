package repository

import (
	"sync"

	"car-sales-agent/domain"
)

// ConversationMemory es la implementación en memoria de
// ConversationRepository. El historial vive lo que vive el proceso.
type ConversationMemory struct {
	mu       sync.RWMutex
	maxTurns int
	turns    map[string][]domain.Turn
}

// NewConversationMemory crea un almacén en memoria con ventana de maxTurns
// turnos por identidad. maxTurns <= 0 usa DefaultMaxTurns.
func NewConversationMemory(maxTurns int) *ConversationMemory {
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}
	return &ConversationMemory{
		maxTurns: maxTurns,
		turns:    make(map[string][]domain.Turn),
	}
}

func (m *ConversationMemory) History(id string) []domain.Turn {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stored := m.turns[id]
	out := make([]domain.Turn, len(stored))
	copy(out, stored)
	return out
}

func (m *ConversationMemory) Append(id string, turn domain.Turn) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	turns := append(m.turns[id], turn)
	if len(turns) > m.maxTurns {
		turns = turns[len(turns)-m.maxTurns:]
	}
	m.turns[id] = turns
	return nil
}

func (m *ConversationMemory) Clear(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.turns, id)
	return nil
}
