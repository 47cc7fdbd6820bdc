package repository

import (
	"context"
	"encoding/json"
	"log"

	"github.com/redis/go-redis/v9"

	"car-sales-agent/domain"
)

const conversationKeyPrefix = "conversation:"

// ConversationRedis guarda historiales en una lista de Redis por identidad,
// recortada a los maxTurns turnos más recientes con LTRIM.
type ConversationRedis struct {
	client   *redis.Client
	ctx      context.Context
	maxTurns int
}

// NewConversationRedis conecta a Redis en addr. maxTurns <= 0 usa
// DefaultMaxTurns.
func NewConversationRedis(addr string, maxTurns int) *ConversationRedis {
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	return &ConversationRedis{
		client:   rdb,
		ctx:      context.Background(),
		maxTurns: maxTurns,
	}
}

// History devuelve el historial guardado. Un error de Redis se trata como
// historial vacío: la conversación sigue, solo sin contexto previo.
func (r *ConversationRedis) History(id string) []domain.Turn {
	values, err := r.client.LRange(r.ctx, conversationKeyPrefix+id, 0, -1).Result()
	if err != nil {
		log.Printf("Warning: failed to read conversation %s from redis: %v", id, err)
		return nil
	}

	turns := make([]domain.Turn, 0, len(values))
	for _, v := range values {
		var turn domain.Turn
		if err := json.Unmarshal([]byte(v), &turn); err != nil {
			log.Printf("Warning: dropping malformed turn for %s: %v", id, err)
			continue
		}
		turns = append(turns, turn)
	}
	return turns
}

func (r *ConversationRedis) Append(id string, turn domain.Turn) error {
	data, err := json.Marshal(turn)
	if err != nil {
		return err
	}

	key := conversationKeyPrefix + id
	if err := r.client.RPush(r.ctx, key, data).Err(); err != nil {
		return err
	}
	return r.client.LTrim(r.ctx, key, int64(-r.maxTurns), -1).Err()
}

func (r *ConversationRedis) Clear(id string) error {
	return r.client.Del(r.ctx, conversationKeyPrefix+id).Err()
}
