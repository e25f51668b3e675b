package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"github.com/shopspring/decimal"

	"github.com/yukikurage/recipe-api/internal/validation"
)

var (
	ErrDraftServiceNotConfigured = errors.New("recipe drafting is not configured")
	ErrDraftEmpty                = errors.New("no recipe could be drafted from the text")
)

// ChatCompleter is the part of the OpenAI client the draft service uses
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// RecipeDraft is a suggested recipe. It is never persisted by the service.
type RecipeDraft struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	TimeMinutes int             `json:"time_minutes"`
	Price       decimal.Decimal `json:"price"`
	Link        string          `json:"link"`
	Tags        []string        `json:"tags"`
	Ingredients []string        `json:"ingredients"`
}

// DraftService turns free text into a recipe draft with an OpenAI chat model
type DraftService struct {
	client ChatCompleter
	model  string
}

// NewDraftService creates a DraftService backed by the OpenAI API
func NewDraftService(apiKey string) *DraftService {
	return NewDraftServiceWithClient(openai.NewClient(apiKey))
}

// NewDraftServiceWithClient creates a DraftService with a custom client
func NewDraftServiceWithClient(client ChatCompleter) *DraftService {
	return &DraftService{
		client: client,
		model:  openai.GPT4o,
	}
}

const draftPrompt = `You turn cooking notes into a structured recipe.

Notes:
%s

Answer with a single JSON object of this shape:
{
  "title": "short recipe title",
  "description": "one or two sentences",
  "time_minutes": 0,
  "price": "0.00",
  "link": "",
  "tags": ["short category names"],
  "ingredients": ["ingredient names without quantities"]
}

Rules:
- time_minutes is the total preparation time as an integer, 0 when unknown
- price is the estimated cost with two decimals, "0.00" when unknown
- link is a URL mentioned in the notes or an empty string
- return only the JSON object`

// DraftFromText asks the model for a recipe draft and cleans up its answer
func (s *DraftService) DraftFromText(ctx context.Context, text string) (*RecipeDraft, error) {
	if s == nil || s.client == nil {
		return nil, ErrDraftServiceNotConfigured
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, validation.FieldError("text", "must not be blank")
	}

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: s.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: fmt.Sprintf(draftPrompt, text),
				},
			},
			ResponseFormat: &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			},
			Temperature: 0.3,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, ErrDraftEmpty
	}

	var draft RecipeDraft
	content := resp.Choices[0].Message.Content
	if err := json.Unmarshal([]byte(content), &draft); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w", err)
	}

	return sanitizeDraft(&draft)
}

func sanitizeDraft(draft *RecipeDraft) (*RecipeDraft, error) {
	draft.Title = strings.TrimSpace(draft.Title)
	if draft.Title == "" {
		return nil, ErrDraftEmpty
	}

	if draft.TimeMinutes < 0 {
		draft.TimeMinutes = 0
	}
	if !validation.ValidPrice(draft.Price) {
		draft.Price = decimal.Zero
	}
	draft.Price = draft.Price.Round(2)

	draft.Tags = uniqueNames(draft.Tags)
	draft.Ingredients = uniqueNames(draft.Ingredients)

	return draft, nil
}

// uniqueNames trims names and drops blanks and repeats, keeping order
func uniqueNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	result := make([]string, 0, len(names))

	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, exists := seen[n]; exists {
			continue
		}
		seen[n] = struct{}{}
		result = append(result, n)
	}

	return result
}
