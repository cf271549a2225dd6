package service

import (
	"fmt"
	"strings"

	"chatforge/internal/models"
)

// languageNames maps the dashboard's language codes to the display names
// used in the language directive.
var languageNames = map[string]string{
	"en": "English",
	"es": "Spanish",
	"pt": "Portuguese",
	"fr": "French",
	"de": "German",
	"it": "Italian",
	"nl": "Dutch",
	"pl": "Polish",
	"tr": "Turkish",
	"ru": "Russian",
	"ar": "Arabic",
	"hi": "Hindi",
	"id": "Indonesian",
	"vi": "Vietnamese",
	"zh": "Chinese",
	"ja": "Japanese",
	"ko": "Korean",
}

// BuildSystemPrompt renders the system prompt for one turn. The function
// is deterministic: the same behavior, context, and channel always yield
// the same string. Clauses are only emitted for populated behavior
// fields, except the emoji policy, which is always stated explicitly one
// way or the other. Custom instructions go last so the model weighs them
// highest.
func BuildSystemPrompt(chatbotName string, behavior models.ChatbotBehavior, documentContext string, channel models.Channel) string {
	name := strings.TrimSpace(chatbotName)
	if name == "" {
		name = "Assistant"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are %s, a helpful assistant representing this business in a chat conversation.\n", name)

	if tone := strings.TrimSpace(behavior.Tone); tone != "" {
		fmt.Fprintf(&b, "Maintain a %s tone in every reply.\n", tone)
	}
	if style := strings.TrimSpace(behavior.Style); style != "" {
		fmt.Fprintf(&b, "Write in a %s style.\n", style)
	}
	if lang := languageName(behavior.Language); lang != "" {
		fmt.Fprintf(&b, "Always answer in %s, regardless of the language the user writes in.\n", lang)
	}

	if behavior.UseEmojis {
		b.WriteString("Use emojis where they make the reply warmer.\n")
	} else {
		b.WriteString("Do not use emojis.\n")
	}

	if behavior.AskQuestions {
		b.WriteString("When the user's request is ambiguous, ask a short clarifying question before answering.\n")
	}
	if behavior.SuggestSolutions {
		b.WriteString("Proactively suggest concrete solutions or next steps when they would help the user.\n")
	}
	if greeting := strings.TrimSpace(behavior.Greeting); greeting != "" {
		fmt.Fprintf(&b, "Your opening greeting is: %q. Keep later replies consistent with it.\n", greeting)
	}

	if documentContext != "" {
		b.WriteString("\nUse the following content as your primary source of knowledge:\n\n")
		b.WriteString(documentContext)
		b.WriteString("\n\nWhen this content conflicts with your general knowledge, prefer this content. ")
		b.WriteString("If it does not fully cover the question, blend in general knowledge, and mention that you are doing so only if the user asks. ")
		b.WriteString("Never mention documents, retrieval, or how you obtained this content unless the user explicitly asks about your sources.\n")
	}

	if channel.NarrowBandwidth() {
		b.WriteString("\nKeep replies brief: short paragraphs, no long-form explanations. The user is reading on a messaging app.\n")
	}

	if instructions := strings.TrimSpace(behavior.Instructions); instructions != "" {
		b.WriteString("\nAdditional instructions:\n")
		b.WriteString(instructions)
		b.WriteString("\n")
	}

	return b.String()
}

func languageName(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return ""
	}
	if name, ok := languageNames[code]; ok {
		return name
	}
	// Unknown codes pass through; the model copes better with a raw code
	// than with no directive at all.
	return code
}
