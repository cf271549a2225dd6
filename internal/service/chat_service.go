package service

import (
	"context"
	"errors"
	"fmt"

	"chatforge/internal/models"
	"chatforge/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrChatbotNotFound = errors.New("chatbot not found")
	ErrEmptyMessages   = errors.New("messages are required")
)

// apologies is the user-visible failure text per configured language.
// The end user is a chat participant, not an API consumer; provider
// failures surface as a natural-language apology, never a raw error.
var apologies = map[string]string{
	"en": "I'm sorry, something went wrong on my side. Please try again in a moment.",
	"es": "Lo siento, algo salió mal de mi lado. Inténtalo de nuevo en un momento.",
	"pt": "Desculpe, algo deu errado do meu lado. Tente novamente em instantes.",
	"fr": "Je suis désolé, une erreur s'est produite de mon côté. Veuillez réessayer dans un instant.",
	"de": "Entschuldigung, bei mir ist etwas schiefgelaufen. Bitte versuchen Sie es gleich noch einmal.",
	"it": "Mi dispiace, qualcosa è andato storto da parte mia. Riprova tra un momento.",
	"ru": "Извините, у меня что-то пошло не так. Пожалуйста, попробуйте ещё раз через минуту.",
}

type accessGate interface {
	Authorize(req AccessRequest) (CallerKind, error)
}

type chatbotStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Chatbot, error)
}

type settingsProvider interface {
	Get(ctx context.Context, chatbotID uuid.UUID) *models.RetrievalSettings
}

type documentRetriever interface {
	Retrieve(ctx context.Context, query string, chatbotID uuid.UUID, settings *models.RetrievalSettings) []models.DocumentMatch
	BuildContext(matches []models.DocumentMatch) string
}

type completer interface {
	Complete(ctx context.Context, messages []models.ChatMessage, systemPrompt, model string, maxTokens int, temperature float64) (*models.CompletionResult, error)
}

type conversationLedger interface {
	EnsureConversation(ctx context.Context, params EnsureParams) (uuid.UUID, error)
	AppendTurn(ctx context.Context, conversationID uuid.UUID, requestID, userText, assistantText string, meta models.MessageMetadata) error
}

type telemetryRecorder interface {
	Record(chatbotID uuid.UUID, query string, documentCount, outputTokens int)
}

// ChatRequest is one inbound turn after DTO parsing.
type ChatRequest struct {
	Access         AccessRequest
	Messages       []models.ChatMessage
	ChatbotID      uuid.UUID
	ConversationID uuid.UUID // Nil when the caller has no conversation yet
	Source         string
	WidgetID       string
	UserIdentifier string
	RequestID      string
}

// ChatResponse is the normalized turn result handed back to the handler.
type ChatResponse struct {
	Message        string
	Model          string
	InputTokens    int
	OutputTokens   int
	ConversationID uuid.UUID
	References     []models.DocumentMatch
	UsedFallback   bool
	Degraded       bool // completion failed; Message is an apology
}

// ChatService runs one turn end to end: gate, settings, retrieval, prompt,
// completion with failover, ledger, detached telemetry.
type ChatService struct {
	gate        accessGate
	chatbots    chatbotStore
	settings    settingsProvider
	retrieval   documentRetriever
	completion  completer
	ledger       conversationLedger
	metrics      telemetryRecorder
	defaultModel string
	maxTokens    int
	temperature  float64
	logger       *zap.Logger
}

func NewChatService(
	gate accessGate,
	chatbots chatbotStore,
	settings settingsProvider,
	retrieval documentRetriever,
	completion completer,
	ledger conversationLedger,
	metrics telemetryRecorder,
	defaultModel string,
	maxTokens int,
	temperature float64,
	logger *zap.Logger,
) *ChatService {
	return &ChatService{
		gate:         gate,
		chatbots:     chatbots,
		settings:     settings,
		retrieval:    retrieval,
		completion:   completion,
		ledger:       ledger,
		metrics:      metrics,
		defaultModel: defaultModel,
		maxTokens:    maxTokens,
		temperature:  temperature,
		logger:       logger,
	}
}

func (s *ChatService) ProcessTurn(ctx context.Context, req *ChatRequest) (*ChatResponse, error) {
	caller, err := s.gate.Authorize(req.Access)
	if err != nil {
		return nil, err
	}

	if len(req.Messages) == 0 {
		return nil, ErrEmptyMessages
	}

	bot, err := s.chatbots.GetByID(ctx, req.ChatbotID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrChatbotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load chatbot: %w", err)
	}

	query := lastUserMessage(req.Messages)
	settings := s.settings.Get(ctx, req.ChatbotID)

	matches := s.retrieval.Retrieve(ctx, query, req.ChatbotID, settings)
	documentContext := s.retrieval.BuildContext(matches)

	systemPrompt := BuildSystemPrompt(bot.Name, bot.Behavior, documentContext, channelFor(caller, req.Source))

	model := bot.Model
	if model == "" {
		model = s.defaultModel
	}

	result, err := s.completion.Complete(ctx, req.Messages, systemPrompt, model, s.maxTokens, s.temperature)
	if err != nil {
		s.logger.Error("Completion failed for turn",
			zap.String("chatbot_id", req.ChatbotID.String()),
			zap.Error(err),
		)
		return s.apologyResponse(req, bot), nil
	}

	conversationID, err := s.ledger.EnsureConversation(ctx, EnsureParams{
		ID:             req.ConversationID,
		ChatbotID:      req.ChatbotID,
		Source:         req.Source,
		WidgetID:       req.WidgetID,
		UserIdentifier: req.UserIdentifier,
	})
	if err != nil {
		// The reply already exists; losing the ledger entry must not
		// lose the reply.
		s.logger.Error("Failed to resolve conversation", zap.Error(err))
	} else if appendErr := s.ledger.AppendTurn(ctx, conversationID, req.RequestID, query, result.Text, models.MessageMetadata{
		Model:        result.Model,
		UsedFallback: result.UsedFallback,
	}); appendErr != nil {
		s.logger.Error("Failed to persist turn",
			zap.String("conversation_id", conversationID.String()),
			zap.Error(appendErr),
		)
	}

	s.metrics.Record(req.ChatbotID, query, len(matches), result.OutputTokens)

	return &ChatResponse{
		Message:        result.Text,
		Model:          result.Model,
		InputTokens:    result.InputTokens,
		OutputTokens:   result.OutputTokens,
		ConversationID: conversationID,
		References:     matches,
		UsedFallback:   result.UsedFallback,
	}, nil
}

// apologyResponse is the terminal path for provider-fatal errors: no
// persistence, no telemetry, just a language-appropriate apology.
func (s *ChatService) apologyResponse(req *ChatRequest, bot *models.Chatbot) *ChatResponse {
	message, ok := apologies[bot.Behavior.Language]
	if !ok {
		message = apologies["en"]
	}

	return &ChatResponse{
		Message:        message,
		ConversationID: req.ConversationID,
		Degraded:       true,
	}
}

func channelFor(caller CallerKind, source string) models.Channel {
	switch caller {
	case CallerDashboard:
		return models.ChannelDashboard
	case CallerChannel:
		if source != "" {
			return models.Channel(source)
		}
		return models.ChannelWhatsApp
	default:
		return models.ChannelWidget
	}
}

func lastUserMessage(messages []models.ChatMessage) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == string(models.RoleUser) {
			return messages[i].Content
		}
	}
	return ""
}
