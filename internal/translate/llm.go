package translate

import (
	"context"
	"fmt"

	"github.com/TobiSchelling/RepMonitor/internal/llm"
)

const translatePrompt = `Translate the following news text into English. Keep names of people, companies and places unchanged. Do not add commentary.

Text:
%s

Respond with ONLY this JSON:
{"translation": "the English text"}`

// LLMTranslator asks a chat model for the translation.
type LLMTranslator struct {
	provider  llm.Provider
	maxTokens int
}

// NewLLMTranslator creates a translator over provider.
func NewLLMTranslator(provider llm.Provider, maxTokens int) *LLMTranslator {
	if maxTokens <= 0 {
		maxTokens = 512
	}
	return &LLMTranslator{provider: provider, maxTokens: maxTokens}
}

// Translate implements Translator.
func (l *LLMTranslator) Translate(ctx context.Context, text string) (string, error) {
	if l.provider == nil {
		return "", fmt.Errorf("no LLM provider available")
	}
	raw, err := l.provider.Generate(ctx, fmt.Sprintf(translatePrompt, text), l.maxTokens)
	if err != nil {
		return "", err
	}

	var out struct {
		Translation string `json:"translation"`
	}
	if err := llm.DecodeJSON(raw, &out); err != nil {
		return "", fmt.Errorf("parsing translation: %w", err)
	}
	return out.Translation, nil
}
