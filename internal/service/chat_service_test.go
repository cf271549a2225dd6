package service

import (
	"context"
	"errors"
	"testing"

	"chatforge/internal/models"
	"chatforge/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type gateFake struct {
	caller CallerKind
	err    error
	calls  int
}

func (f *gateFake) Authorize(AccessRequest) (CallerKind, error) {
	f.calls++
	return f.caller, f.err
}

type chatbotStoreFake struct {
	bot   *models.Chatbot
	err   error
	calls int
}

func (f *chatbotStoreFake) GetByID(context.Context, uuid.UUID) (*models.Chatbot, error) {
	f.calls++
	return f.bot, f.err
}

type settingsFake struct {
	calls int
}

func (f *settingsFake) Get(_ context.Context, chatbotID uuid.UUID) *models.RetrievalSettings {
	f.calls++
	return models.DefaultRetrievalSettings(chatbotID, "text-embedding-3-small")
}

type retrieverFake struct {
	matches   []models.DocumentMatch
	calls     int
	lastQuery string
}

func (f *retrieverFake) Retrieve(_ context.Context, query string, _ uuid.UUID, _ *models.RetrievalSettings) []models.DocumentMatch {
	f.calls++
	f.lastQuery = query
	return f.matches
}

func (f *retrieverFake) BuildContext(matches []models.DocumentMatch) string {
	if len(matches) == 0 {
		return ""
	}
	return "[context]"
}

type completerFake struct {
	result     *models.CompletionResult
	err        error
	calls      int
	lastSystem string
	lastModel  string
}

func (f *completerFake) Complete(_ context.Context, _ []models.ChatMessage, systemPrompt, model string, _ int, _ float64) (*models.CompletionResult, error) {
	f.calls++
	f.lastSystem = systemPrompt
	f.lastModel = model
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type ledgerFake struct {
	ensureID      uuid.UUID
	ensureErr     error
	ensureCalls   int
	appendCalls   int
	appendErr     error
	userText      string
	assistantText string
	requestID     string
	meta          models.MessageMetadata
}

func (f *ledgerFake) EnsureConversation(_ context.Context, params EnsureParams) (uuid.UUID, error) {
	f.ensureCalls++
	if f.ensureErr != nil {
		return uuid.Nil, f.ensureErr
	}
	if params.ID != uuid.Nil {
		return params.ID, nil
	}
	return f.ensureID, nil
}

func (f *ledgerFake) AppendTurn(_ context.Context, _ uuid.UUID, requestID, userText, assistantText string, meta models.MessageMetadata) error {
	f.appendCalls++
	f.requestID = requestID
	f.userText = userText
	f.assistantText = assistantText
	f.meta = meta
	return f.appendErr
}

type telemetryFake struct {
	calls         int
	documentCount int
	outputTokens  int
}

func (f *telemetryFake) Record(_ uuid.UUID, _ string, documentCount, outputTokens int) {
	f.calls++
	f.documentCount = documentCount
	f.outputTokens = outputTokens
}

type chatFixture struct {
	gate      *gateFake
	chatbots  *chatbotStoreFake
	settings  *settingsFake
	retriever *retrieverFake
	completer *completerFake
	ledger    *ledgerFake
	telemetry *telemetryFake
	svc       *ChatService
}

func newChatFixture() *chatFixture {
	f := &chatFixture{
		gate: &gateFake{caller: CallerWidget},
		chatbots: &chatbotStoreFake{bot: &models.Chatbot{
			ID:    uuid.New(),
			Name:  "Support Bot",
			Model: "claude-sonnet-4-20250514",
		}},
		settings:  &settingsFake{},
		retriever: &retrieverFake{},
		completer: &completerFake{result: &models.CompletionResult{
			Text:         "Plans start at $10.",
			Model:        "claude-sonnet-4-20250514",
			InputTokens:  42,
			OutputTokens: 7,
		}},
		ledger:    &ledgerFake{ensureID: uuid.New()},
		telemetry: &telemetryFake{},
	}
	f.svc = NewChatService(f.gate, f.chatbots, f.settings, f.retriever, f.completer, f.ledger, f.telemetry, "claude-sonnet-4-20250514", 1024, 0.7, zap.NewNop())
	return f
}

func chatRequest() *ChatRequest {
	return &ChatRequest{
		Messages: []models.ChatMessage{
			{Role: "user", Content: "hello"},
			{Role: "assistant", Content: "hi, how can I help?"},
			{Role: "user", Content: "what are your prices?"},
		},
		ChatbotID: uuid.New(),
		Source:    "widget",
		RequestID: "req-1",
	}
}

func TestProcessTurnHappyPath(t *testing.T) {
	f := newChatFixture()
	f.retriever.matches = []models.DocumentMatch{{ID: "d1", Name: "Pricing", Similarity: 0.9}}

	resp, err := f.svc.ProcessTurn(context.Background(), chatRequest())

	require.NoError(t, err)
	assert.Equal(t, "Plans start at $10.", resp.Message)
	assert.Equal(t, "claude-sonnet-4-20250514", resp.Model)
	assert.Equal(t, 42, resp.InputTokens)
	assert.Equal(t, 7, resp.OutputTokens)
	assert.Equal(t, f.ledger.ensureID, resp.ConversationID)
	assert.Len(t, resp.References, 1)
	assert.False(t, resp.Degraded)

	assert.Equal(t, "what are your prices?", f.retriever.lastQuery, "retrieval keys off the last user message")
	assert.Equal(t, 1, f.ledger.appendCalls)
	assert.Equal(t, "what are your prices?", f.ledger.userText)
	assert.Equal(t, "Plans start at $10.", f.ledger.assistantText)
	assert.Equal(t, "req-1", f.ledger.requestID)
	assert.Equal(t, "claude-sonnet-4-20250514", f.ledger.meta.Model)

	assert.Equal(t, 1, f.telemetry.calls)
	assert.Equal(t, 1, f.telemetry.documentCount)
	assert.Equal(t, 7, f.telemetry.outputTokens)
}

func TestProcessTurnUnauthorizedHasNoSideEffects(t *testing.T) {
	f := newChatFixture()
	f.gate.err = ErrUnauthorized

	_, err := f.svc.ProcessTurn(context.Background(), chatRequest())

	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Zero(t, f.chatbots.calls)
	assert.Zero(t, f.settings.calls)
	assert.Zero(t, f.retriever.calls)
	assert.Zero(t, f.completer.calls)
	assert.Zero(t, f.ledger.ensureCalls)
	assert.Zero(t, f.ledger.appendCalls)
	assert.Zero(t, f.telemetry.calls)
}

func TestProcessTurnEmptyMessages(t *testing.T) {
	f := newChatFixture()
	req := chatRequest()
	req.Messages = nil

	_, err := f.svc.ProcessTurn(context.Background(), req)
	assert.ErrorIs(t, err, ErrEmptyMessages)
	assert.Zero(t, f.completer.calls)
}

func TestProcessTurnUnknownChatbot(t *testing.T) {
	f := newChatFixture()
	f.chatbots.bot = nil
	f.chatbots.err = repository.ErrNotFound

	_, err := f.svc.ProcessTurn(context.Background(), chatRequest())
	assert.ErrorIs(t, err, ErrChatbotNotFound)
	assert.Zero(t, f.completer.calls)
}

func TestProcessTurnCompletionFailureDegrades(t *testing.T) {
	f := newChatFixture()
	f.completer.result = nil
	f.completer.err = errors.New("both providers down")
	f.chatbots.bot.Behavior.Language = "es"

	resp, err := f.svc.ProcessTurn(context.Background(), chatRequest())

	require.NoError(t, err, "a provider failure is not a turn failure")
	assert.True(t, resp.Degraded)
	assert.Equal(t, apologies["es"], resp.Message)

	assert.Zero(t, f.ledger.ensureCalls, "a failed turn must not be persisted")
	assert.Zero(t, f.ledger.appendCalls)
	assert.Zero(t, f.telemetry.calls, "a failed turn must not be counted")
}

func TestProcessTurnApologyFallsBackToEnglish(t *testing.T) {
	f := newChatFixture()
	f.completer.result = nil
	f.completer.err = errors.New("down")
	f.chatbots.bot.Behavior.Language = "sw"

	resp, err := f.svc.ProcessTurn(context.Background(), chatRequest())
	require.NoError(t, err)
	assert.Equal(t, apologies["en"], resp.Message)
}

func TestProcessTurnLedgerFailureKeepsReply(t *testing.T) {
	f := newChatFixture()
	f.ledger.ensureErr = errors.New("db down")

	resp, err := f.svc.ProcessTurn(context.Background(), chatRequest())

	require.NoError(t, err)
	assert.Equal(t, "Plans start at $10.", resp.Message)
	assert.False(t, resp.Degraded)
	assert.Equal(t, 1, f.telemetry.calls, "telemetry still records the completed turn")
}

func TestProcessTurnSuppliedConversationID(t *testing.T) {
	f := newChatFixture()
	req := chatRequest()
	req.ConversationID = uuid.New()

	resp, err := f.svc.ProcessTurn(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, req.ConversationID, resp.ConversationID)
}

func TestProcessTurnDefaultModelWhenUnset(t *testing.T) {
	f := newChatFixture()
	f.chatbots.bot.Model = ""

	_, err := f.svc.ProcessTurn(context.Background(), chatRequest())
	require.NoError(t, err)
	assert.Equal(t, "claude-sonnet-4-20250514", f.completer.lastModel)
}

func TestProcessTurnChannelShapesPrompt(t *testing.T) {
	f := newChatFixture()
	f.gate.caller = CallerChannel
	req := chatRequest()
	req.Source = "whatsapp"

	_, err := f.svc.ProcessTurn(context.Background(), req)
	require.NoError(t, err)
	assert.Contains(t, f.completer.lastSystem, "Keep replies brief")
	assert.Equal(t, "claude-sonnet-4-20250514", f.completer.lastModel)
}
