package notify

import (
	"context"
	"fmt"

	"spendly/internal/model"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
)

const coachSystemPrompt = "You are a mindful spending coach who helps people develop healthier relationships with shopping and money."

// Fallback messages used when generation fails or comes back empty. The
// email always carries a coaching note, AI or not.
const (
	fallbackEmptyCompletion = "Remember that mindful spending leads to better financial and emotional well-being. Take a moment to reflect on your purchases and how they align with your goals."
	fallbackGenerationError = "Thank you for practicing mindful spending. Each purchase is an opportunity to reflect on our choices and grow."
)

// Coach produces a short encouragement message tailored to the emotional
// trigger behind a purchase.
type Coach interface {
	Encouragement(ctx context.Context, trigger model.EmotionalTrigger) string
}

// openAICoach implements Coach against the OpenAI chat completions API.
type openAICoach struct {
	client *openai.Client
	logger zerolog.Logger
}

// NewCoach creates an OpenAI-backed encouragement coach.
func NewCoach(apiKey string, logger zerolog.Logger) Coach {
	return &openAICoach{
		client: openai.NewClient(apiKey),
		logger: logger.With().Str("component", "coach").Logger(),
	}
}

// Encouragement generates a 2-3 sentence coaching note for the trigger.
// Never fails: any API problem degrades to a canned message.
func (c *openAICoach) Encouragement(ctx context.Context, trigger model.EmotionalTrigger) string {
	prompt := fmt.Sprintf(
		"Write a short, empathetic, and encouraging message (2-3 sentences) for someone who made a purchase while feeling %s. Focus on mindful spending and emotional well-being. Be supportive but also gently encourage thoughtful purchasing decisions.",
		trigger,
	)

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       openai.GPT3Dot5Turbo,
		Temperature: 0.7,
		MaxTokens:   100,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: coachSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		c.logger.Warn().Err(err).Str("trigger", string(trigger)).Msg("encouragement generation failed, using fallback")
		return fallbackGenerationError
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return fallbackEmptyCompletion
	}
	return resp.Choices[0].Message.Content
}
