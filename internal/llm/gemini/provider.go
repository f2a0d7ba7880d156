package gemini

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/openloom/workspace-chat/internal/llm"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

type Provider struct {
	apiKey string
	model  string
}

func NewProvider(apiKey, model string) *Provider {
	return &Provider{
		apiKey: apiKey,
		model:  model,
	}
}

func (p *Provider) Name() string {
	return "gemini"
}

func (p *Provider) AvailableModels() []string {
	return []string{
		"gemini-2.5-flash",
		"gemini-1.5-flash",
		"gemini-1.5-pro",
	}
}

func (p *Provider) DefaultModel() string {
	if p.model != "" {
		return p.model
	}
	return "gemini-2.5-flash"
}

func (p *Provider) IsConfigured() bool {
	return p.apiKey != ""
}

// StreamCompletion streams a chat completion through the Gemini SDK. History
// travels on a chat session; the final user message is sent as the streamed
// turn.
func (p *Provider) StreamCompletion(ctx context.Context, req llm.Request, model string, onDelta llm.DeltaFunc) (*llm.Usage, error) {
	if !p.IsConfigured() {
		return nil, fmt.Errorf("gemini provider is not configured (missing API key)")
	}
	if model == "" {
		model = p.DefaultModel()
	}
	if len(req.Messages) == 0 {
		return nil, errors.New("no messages to send")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(p.apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	defer client.Close()

	generativeModel := client.GenerativeModel(model)
	if req.Temperature > 0 {
		temperature := float32(req.Temperature)
		generativeModel.Temperature = &temperature
	}

	// Gemini has no system role on chat turns; system prompts ride on the
	// model's SystemInstruction.
	var history []*genai.Content
	var last llm.ChatMessage
	for i, m := range req.Messages {
		if m.Role == llm.RoleSystem {
			generativeModel.SystemInstruction = &genai.Content{
				Parts: []genai.Part{genai.Text(m.Content)},
			}
			continue
		}
		if i == len(req.Messages)-1 {
			last = m
			continue
		}
		role := "user"
		if m.Role == llm.RoleAssistant {
			role = "model"
		}
		history = append(history, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(m.Content)},
		})
	}
	if last.Content == "" {
		return nil, errors.New("missing final user message")
	}

	session := generativeModel.StartChat()
	session.History = history

	usage := &llm.Usage{Model: model}
	start := time.Now()

	iter := session.SendMessageStream(ctx, genai.Text(last.Content))
	for {
		resp, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("gemini stream error: %w", err)
		}
		if resp.UsageMetadata != nil {
			usage.TokensUsed = int(resp.UsageMetadata.TotalTokenCount)
		}
		for _, candidate := range resp.Candidates {
			if candidate.Content == nil {
				continue
			}
			for _, part := range candidate.Content.Parts {
				if text, ok := part.(genai.Text); ok && len(text) > 0 {
					if err := onDelta(string(text)); err != nil {
						return nil, err
					}
				}
			}
		}
	}

	usage.LatencyMs = time.Since(start).Milliseconds()
	return usage, nil
}
