package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// TranslatorConfig controls the chat-completion translation call.
type TranslatorConfig struct {
	APIKey string
	Model  string
}

// Translator implements ports.Translator on OpenAI chat completions.
type Translator struct {
	client *openai.Client
	model  string
	log    *zap.Logger
}

func NewTranslator(cfg TranslatorConfig, log *zap.Logger) *Translator {
	if cfg.Model == "" {
		cfg.Model = openai.GPT4oMini
	}
	if log == nil {
		log = zap.NewNop()
	}
	t := &Translator{model: cfg.Model, log: log}
	if strings.TrimSpace(cfg.APIKey) != "" {
		t.client = openai.NewClient(cfg.APIKey)
	}
	return t
}

func (t *Translator) Translate(ctx context.Context, text string, sourceLang string, targetLang string) (string, error) {
	if t.client == nil {
		return "", errors.New("OPENAI_API_KEY is not configured")
	}

	resp, err := t.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: t.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: translationPrompt(sourceLang, targetLang)},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		Temperature: 0,
	})
	if err != nil {
		return "", fmt.Errorf("translation request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("translation provider returned no choices")
	}

	translated := strings.TrimSpace(resp.Choices[0].Message.Content)
	if translated == "" {
		return "", errors.New("translation provider returned empty text")
	}

	t.log.Debug("segment translated",
		zap.String("source", sourceLang),
		zap.String("target", targetLang),
		zap.Int("chars", len(translated)),
	)
	return translated, nil
}

func translationPrompt(sourceLang string, targetLang string) string {
	return fmt.Sprintf(
		"You are a translation engine. Translate the user message from %s to %s. Reply with the translated text only, without commentary.",
		sourceLang, targetLang,
	)
}
