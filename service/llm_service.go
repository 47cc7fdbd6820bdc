package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	openai "github.com/sashabaranov/go-openai"

	"car-sales-agent/domain"
)

// apologyMessage es la respuesta fija ante cualquier falla con el modelo.
// Ninguna falla upstream se propaga al caller como error.
const apologyMessage = "Lo siento, hubo un error procesando tu solicitud. Por favor intenta de nuevo."

const systemPrompt = `Eres un agente comercial de Kavak México. Ayudas a los clientes a encontrar autos y calcular financiamiento.

INFORMACIÓN SOBRE KAVAK:
- Plataforma digital para compra y venta de autos usados en México
- Vehículos 100% certificados con los mejores precios del mercado
- 15 ubicaciones y 13 centros de inspección a nivel nacional
- Financiamiento flexible con planes de pago mensuales
- Período de prueba de 7 días/300 km
- Garantía de 3 meses (extendible a 1 año)

CAPACIDADES:
1. Buscar autos según preferencias del cliente
2. Calcular planes de financiamiento (tasa 10% anual, 3-6 años)
3. Información sobre Kavak y proceso de compra

INSTRUCCIONES:
- Sé amigable y profesional
- Usa español natural y conversacional
- Ofrece múltiples opciones cuando sea posible
- Mantén respuestas concisas

HERRAMIENTAS:
- search_cars: Buscar autos por criterios
- calculate_financing: Calcular plan de financiamiento
- get_financing_options: Obtener múltiples opciones de financiamiento

Responde en español mexicano con tono profesional pero cercano.`

// ChatCompleter es el subconjunto del cliente de OpenAI que consume el
// orquestador. Las pruebas inyectan implementaciones falsas.
type ChatCompleter interface {
	CreateChatCompletion(
		ctx context.Context,
		req openai.ChatCompletionRequest,
	) (openai.ChatCompletionResponse, error)
}

// LLMService orquesta un turno de conversación: manda historial y mensaje al
// modelo, despacha a lo más una herramienta, reinyecta su resultado y
// devuelve el texto final.
type LLMService struct {
	client   ChatCompleter
	model    string
	registry *ToolRegistry
}

// NewLLMService creates a new LLMService.
func NewLLMService(client ChatCompleter, model string, registry *ToolRegistry) *LLMService {
	return &LLMService{
		client:   client,
		model:    model,
		registry: registry,
	}
}

// ProcessMessage procesa un turno y siempre devuelve texto para el usuario.
// Cualquier falla upstream o de despacho se convierte en texto; este método
// no devuelve errores ni entra en pánico.
func (s *LLMService) ProcessMessage(
	ctx context.Context,
	message string,
	history []domain.Turn,
) string {

	base := s.buildMessages(history, message)

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       s.model,
		Messages:    base,
		Tools:       s.openAITools(),
		Temperature: 0.7,
		MaxTokens:   1000,
	})
	if err != nil {
		return s.upstreamFailure(err)
	}
	if len(resp.Choices) == 0 {
		return s.upstreamFailure(fmt.Errorf("no response from model"))
	}

	reply := resp.Choices[0].Message
	if len(reply.ToolCalls) == 0 {
		return reply.Content
	}

	// A lo más una herramienta por turno: solo se honra la primera
	// invocación que pida el modelo.
	call := reply.ToolCalls[0]
	result := s.runTool(ctx, call)

	// Nuevo snapshot: registro de la invocación + su resultado como turno
	// de herramienta, antes de la segunda llamada.
	followup := make([]openai.ChatCompletionMessage, len(base), len(base)+2)
	copy(followup, base)
	followup = append(followup,
		openai.ChatCompletionMessage{
			Role:      openai.ChatMessageRoleAssistant,
			ToolCalls: []openai.ToolCall{call},
		},
		openai.ChatCompletionMessage{
			Role:       openai.ChatMessageRoleTool,
			Content:    result,
			ToolCallID: call.ID,
		},
	)

	// La segunda llamada va sin herramientas; su texto es la respuesta
	// final del turno, pida lo que pida el modelo.
	final, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       s.model,
		Messages:    followup,
		Temperature: 0.7,
		MaxTokens:   1000,
	})
	if err != nil {
		return s.upstreamFailure(err)
	}
	if len(final.Choices) == 0 {
		return s.upstreamFailure(fmt.Errorf("no response from model"))
	}
	return final.Choices[0].Message.Content
}

func (s *LLMService) buildMessages(
	history []domain.Turn,
	message string,
) []openai.ChatCompletionMessage {

	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt,
	})
	for _, turn := range history {
		role := openai.ChatMessageRoleUser
		if turn.Role == domain.RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    role,
			Content: turn.Content,
		})
	}
	return append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: message,
	})
}

func (s *LLMService) openAITools() []openai.Tool {
	descriptors := s.registry.Descriptors()
	tools := make([]openai.Tool, 0, len(descriptors))
	for _, d := range descriptors {
		tools = append(tools, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        d.Name,
				Description: d.Description,
				Parameters:  d.Parameters,
			},
		})
	}
	return tools
}

// runTool despacha la invocación y garantiza un resultado textual: errores
// de despacho y pánicos de formateo se convierten en un mensaje genérico que
// nombra la herramienta.
func (s *LLMService) runTool(ctx context.Context, call openai.ToolCall) (result string) {
	name := call.Function.Name
	defer func() {
		if p := recover(); p != nil {
			log.Printf("Error: panic dispatching tool %s: %v", name, p)
			result = fmt.Sprintf("Error procesando la función %s.", name)
		}
	}()

	text, err := s.registry.Dispatch(ctx, name, json.RawMessage(call.Function.Arguments))
	if err != nil {
		log.Printf("Warning: tool dispatch failed for %s: %v", name, err)
		return fmt.Sprintf("Error procesando la función %s: %v", name, err)
	}
	return text
}

func (s *LLMService) upstreamFailure(err error) string {
	log.Printf("Error calling chat completion API: %v", err)
	return fmt.Sprintf("%s Error: %v", apologyMessage, err)
}
