package service

import (
	"strings"
	"testing"

	"chatforge/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSystemPromptToneClause(t *testing.T) {
	withTone := BuildSystemPrompt("Sales Bot", models.ChatbotBehavior{Tone: "friendly"}, "", models.ChannelWidget)
	assert.Contains(t, withTone, "friendly tone")

	withoutTone := BuildSystemPrompt("Sales Bot", models.ChatbotBehavior{}, "", models.ChannelWidget)
	assert.NotContains(t, withoutTone, "tone")
}

func TestBuildSystemPromptEmojiPolicyIsNeverAmbiguous(t *testing.T) {
	for _, useEmojis := range []bool{true, false} {
		prompt := BuildSystemPrompt("Bot", models.ChatbotBehavior{UseEmojis: useEmojis}, "", models.ChannelWidget)

		usesEmojis := strings.Contains(prompt, "Use emojis")
		forbidsEmojis := strings.Contains(prompt, "Do not use emojis")
		assert.NotEqual(t, usesEmojis, forbidsEmojis, "exactly one emoji directive expected")
		assert.Equal(t, useEmojis, usesEmojis)
	}
}

func TestBuildSystemPromptLanguageDirective(t *testing.T) {
	prompt := BuildSystemPrompt("Bot", models.ChatbotBehavior{Language: "es"}, "", models.ChannelWidget)
	assert.Contains(t, prompt, "Always answer in Spanish")

	prompt = BuildSystemPrompt("Bot", models.ChatbotBehavior{Language: "PT"}, "", models.ChannelWidget)
	assert.Contains(t, prompt, "Always answer in Portuguese")

	// Unknown codes pass through rather than vanish.
	prompt = BuildSystemPrompt("Bot", models.ChatbotBehavior{Language: "eu"}, "", models.ChannelWidget)
	assert.Contains(t, prompt, "Always answer in eu")

	prompt = BuildSystemPrompt("Bot", models.ChatbotBehavior{}, "", models.ChannelWidget)
	assert.NotContains(t, prompt, "Always answer in")
}

func TestBuildSystemPromptGroundingSection(t *testing.T) {
	withContext := BuildSystemPrompt("Bot", models.ChatbotBehavior{}, "[Pricing]\nPlans start at $10.", models.ChannelWidget)
	assert.Contains(t, withContext, "primary source of knowledge")
	assert.Contains(t, withContext, "Plans start at $10.")
	assert.Contains(t, withContext, "prefer this content")

	withoutContext := BuildSystemPrompt("Bot", models.ChatbotBehavior{}, "", models.ChannelWidget)
	assert.NotContains(t, withoutContext, "primary source of knowledge")
}

func TestBuildSystemPromptBrevityDirective(t *testing.T) {
	narrow := BuildSystemPrompt("Bot", models.ChatbotBehavior{}, "", models.ChannelWhatsApp)
	assert.Contains(t, narrow, "Keep replies brief")

	for _, channel := range []models.Channel{models.ChannelWidget, models.ChannelDashboard} {
		wide := BuildSystemPrompt("Bot", models.ChatbotBehavior{}, "", channel)
		assert.NotContains(t, wide, "Keep replies brief")
	}
}

func TestBuildSystemPromptInstructionsComeLast(t *testing.T) {
	behavior := models.ChatbotBehavior{
		Tone:         "formal",
		Instructions: "Never quote prices without checking the pricing page.",
		Greeting:     "Hi there!",
	}
	prompt := BuildSystemPrompt("Bot", behavior, "[Doc]\ncontent", models.ChannelWhatsApp)

	instrIdx := strings.Index(prompt, "Never quote prices")
	require.Positive(t, instrIdx)
	assert.Greater(t, instrIdx, strings.Index(prompt, "formal tone"))
	assert.Greater(t, instrIdx, strings.Index(prompt, "primary source of knowledge"))
	assert.Greater(t, instrIdx, strings.Index(prompt, "Keep replies brief"))
}

func TestBuildSystemPromptDeterministic(t *testing.T) {
	behavior := models.ChatbotBehavior{
		Tone:             "casual",
		Style:            "concise",
		Language:         "fr",
		UseEmojis:        true,
		AskQuestions:     true,
		SuggestSolutions: true,
		Instructions:     "Escalate refund requests.",
		Greeting:         "Bonjour!",
	}

	first := BuildSystemPrompt("Support", behavior, "[FAQ]\nanswer", models.ChannelWhatsApp)
	second := BuildSystemPrompt("Support", behavior, "[FAQ]\nanswer", models.ChannelWhatsApp)
	assert.Equal(t, first, second)
}

func TestBuildSystemPromptFallbackName(t *testing.T) {
	prompt := BuildSystemPrompt("  ", models.ChatbotBehavior{}, "", models.ChannelWidget)
	assert.Contains(t, prompt, "You are Assistant")
}
