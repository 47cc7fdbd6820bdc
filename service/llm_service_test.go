package service

import (
	"context"
	"errors"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"car-sales-agent/domain"
)

// fakeCompleter devuelve respuestas preparadas en orden y guarda cada request
// recibido para inspección.
type fakeCompleter struct {
	responses []openai.ChatCompletionResponse
	err       error
	requests  []openai.ChatCompletionRequest
}

func (f *fakeCompleter) CreateChatCompletion(
	_ context.Context,
	req openai.ChatCompletionRequest,
) (openai.ChatCompletionResponse, error) {

	f.requests = append(f.requests, req)
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	resp := f.responses[0]
	f.responses = f.responses[1:]
	return resp, nil
}

func textResponse(content string) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleAssistant,
				Content: content,
			}},
		},
	}
}

func toolCallResponse(id, name, args string) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{
				Role: openai.ChatMessageRoleAssistant,
				ToolCalls: []openai.ToolCall{{
					ID:   id,
					Type: openai.ToolTypeFunction,
					Function: openai.FunctionCall{
						Name:      name,
						Arguments: args,
					},
				}},
			}},
		},
	}
}

func testLLM(t *testing.T, completer ChatCompleter) *LLMService {
	t.Helper()
	return NewLLMService(completer, "gpt-4o-mini", testRegistry(t))
}

func TestProcessMessage_PlainText(t *testing.T) {
	completer := &fakeCompleter{
		responses: []openai.ChatCompletionResponse{textResponse("¡Hola! ¿En qué puedo ayudarte?")},
	}
	llm := testLLM(t, completer)

	out := llm.ProcessMessage(context.Background(), "Hola", nil)

	assert.Equal(t, "¡Hola! ¿En qué puedo ayudarte?", out)
	require.Len(t, completer.requests, 1)

	req := completer.requests[0]
	assert.Len(t, req.Tools, 3)
	require.Len(t, req.Messages, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, req.Messages[0].Role)
	assert.Equal(t, "Hola", req.Messages[1].Content)
}

func TestProcessMessage_History(t *testing.T) {
	completer := &fakeCompleter{
		responses: []openai.ChatCompletionResponse{textResponse("Claro, el Corolla.")},
	}
	llm := testLLM(t, completer)

	history := []domain.Turn{
		{Role: domain.RoleUser, Content: "Busco un Toyota"},
		{Role: domain.RoleAssistant, Content: "Tenemos varios Toyota."},
	}
	llm.ProcessMessage(context.Background(), "¿Cuál es el más barato?", history)

	require.Len(t, completer.requests, 1)
	msgs := completer.requests[0].Messages
	require.Len(t, msgs, 4)
	assert.Equal(t, openai.ChatMessageRoleUser, msgs[1].Role)
	assert.Equal(t, "Busco un Toyota", msgs[1].Content)
	assert.Equal(t, openai.ChatMessageRoleAssistant, msgs[2].Role)
	assert.Equal(t, "¿Cuál es el más barato?", msgs[3].Content)
}

func TestProcessMessage_ToolCallRoundTrip(t *testing.T) {
	completer := &fakeCompleter{
		responses: []openai.ChatCompletionResponse{
			toolCallResponse("call_1", ToolSearchCars, `{"make": "Toyota"}`),
			textResponse("Te encontré varios Toyota."),
		},
	}
	llm := testLLM(t, completer)

	out := llm.ProcessMessage(context.Background(), "Busco un Toyota", nil)

	assert.Equal(t, "Te encontré varios Toyota.", out)
	require.Len(t, completer.requests, 2)

	// La segunda llamada lleva el resultado de la herramienta y va sin
	// herramientas adjuntas.
	second := completer.requests[1]
	assert.Empty(t, second.Tools)

	msgs := second.Messages
	require.Len(t, msgs, 4)
	assert.Equal(t, openai.ChatMessageRoleAssistant, msgs[2].Role)
	require.Len(t, msgs[2].ToolCalls, 1)
	assert.Equal(t, "call_1", msgs[2].ToolCalls[0].ID)
	assert.Equal(t, openai.ChatMessageRoleTool, msgs[3].Role)
	assert.Equal(t, "call_1", msgs[3].ToolCallID)
	assert.Contains(t, msgs[3].Content, "Encontré 3 autos")
}

func TestProcessMessage_OnlyFirstToolCallHonored(t *testing.T) {
	first := toolCallResponse("call_1", ToolSearchCars, `{"make": "Toyota"}`)
	first.Choices[0].Message.ToolCalls = append(
		first.Choices[0].Message.ToolCalls,
		openai.ToolCall{
			ID:   "call_2",
			Type: openai.ToolTypeFunction,
			Function: openai.FunctionCall{
				Name:      ToolFinancingOptions,
				Arguments: `{"car_price": 250000}`,
			},
		},
	)
	completer := &fakeCompleter{
		responses: []openai.ChatCompletionResponse{first, textResponse("Listo.")},
	}
	llm := testLLM(t, completer)

	llm.ProcessMessage(context.Background(), "Busco un Toyota con financiamiento", nil)

	require.Len(t, completer.requests, 2)
	msgs := completer.requests[1].Messages
	require.Len(t, msgs[2].ToolCalls, 1)
	assert.Equal(t, "call_1", msgs[2].ToolCalls[0].ID)
}

func TestProcessMessage_SecondResponseIsFinalEvenWithToolCalls(t *testing.T) {
	second := toolCallResponse("call_2", ToolSearchCars, `{}`)
	second.Choices[0].Message.Content = "Déjame buscar de nuevo."
	completer := &fakeCompleter{
		responses: []openai.ChatCompletionResponse{
			toolCallResponse("call_1", ToolSearchCars, `{"make": "Toyota"}`),
			second,
		},
	}
	llm := testLLM(t, completer)

	out := llm.ProcessMessage(context.Background(), "Busco un Toyota", nil)

	// No hay tercera llamada: el texto de la segunda respuesta cierra el
	// turno aunque pida otra herramienta.
	assert.Equal(t, "Déjame buscar de nuevo.", out)
	assert.Len(t, completer.requests, 2)
}

func TestProcessMessage_UnknownToolFedBackAsText(t *testing.T) {
	completer := &fakeCompleter{
		responses: []openai.ChatCompletionResponse{
			toolCallResponse("call_1", "delete_catalog", `{}`),
			textResponse("Hubo un problema con esa operación."),
		},
	}
	llm := testLLM(t, completer)

	out := llm.ProcessMessage(context.Background(), "borra todo", nil)

	assert.Equal(t, "Hubo un problema con esa operación.", out)
	require.Len(t, completer.requests, 2)

	toolMsg := completer.requests[1].Messages[3]
	assert.Contains(t, toolMsg.Content, "Error procesando la función delete_catalog")
}

func TestProcessMessage_UpstreamError(t *testing.T) {
	completer := &fakeCompleter{err: errors.New("rate limited")}
	llm := testLLM(t, completer)

	out := llm.ProcessMessage(context.Background(), "Hola", nil)

	assert.Contains(t, out, apologyMessage)
	assert.Contains(t, out, "rate limited")
}

func TestProcessMessage_EmptyChoices(t *testing.T) {
	completer := &fakeCompleter{
		responses: []openai.ChatCompletionResponse{{}},
	}
	llm := testLLM(t, completer)

	out := llm.ProcessMessage(context.Background(), "Hola", nil)

	assert.Contains(t, out, apologyMessage)
}
