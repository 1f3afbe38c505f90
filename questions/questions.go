// Package questions generates the three comprehension question sets for an
// article. The same generation call serves both bulk generation and the
// repair pipeline's regeneration path.
package questions

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/genai"

	"readleaf/models"
)

const mcInstruction = `
You are a reading-comprehension question writer for language learners.
Analyze the provided article and produce multiple-choice questions.
The response MUST be a valid JSON array of 4 objects, each with three keys:
1. prompt: The question, written at the article's reading level.
2. choices: An array of exactly 4 answer options.
3. answer_index: The 0-based index of the correct option.
Questions must be answerable from the article text alone.
You MUST NOT wrap the JSON output in a markdown code block (e.g. ` + "```json ... ```" + `).
The response should contain ONLY the raw JSON string.
`

const saInstruction = `
You are a reading-comprehension question writer for language learners.
Analyze the provided article and produce short-answer questions.
The response MUST be a valid JSON array of 3 objects, each with two keys:
1. prompt: The question, answerable in one sentence.
2. answer: The expected one-sentence answer.
Questions must be answerable from the article text alone.
You MUST NOT wrap the JSON output in a markdown code block (e.g. ` + "```json ... ```" + `).
The response should contain ONLY the raw JSON string.
`

const laInstruction = `
You are a reading-comprehension question writer for language learners.
Analyze the provided article and produce long-answer (essay) questions.
The response MUST be a valid JSON array of 2 objects, each with two keys:
1. prompt: An open question inviting a paragraph-length answer.
2. sample_answer: A model paragraph a strong learner might write.
Questions must relate the article to the reader's own experience where possible.
You MUST NOT wrap the JSON output in a markdown code block (e.g. ` + "```json ... ```" + `).
The response should contain ONLY the raw JSON string.
`

// QuestionStore is the persistence slice the generator writes through.
type QuestionStore interface {
	InsertMC(ctx context.Context, qs []models.MCQuestion) error
	InsertSA(ctx context.Context, qs []models.SAQuestion) error
	InsertLA(ctx context.Context, qs []models.LAQuestion) error
}

// Generator produces one question set per call.
type Generator struct {
	apiKey string
	model  string
	store  QuestionStore
}

func NewGenerator(apiKey, model string, store QuestionStore) *Generator {
	if model == "" {
		model = "gemini-2.0-flash"
	}
	return &Generator{apiKey: apiKey, model: model, store: store}
}

// Generate creates and stores the question set of one kind for the article.
func (g *Generator) Generate(ctx context.Context, article *models.Article, kind models.QuestionKind) error {
	instruction, err := instructionFor(kind)
	if err != nil {
		return err
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: g.apiKey})
	if err != nil {
		return err
	}

	result, err := client.Models.GenerateContent(
		ctx,
		g.model,
		genai.Text(article.Content),
		&genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: instruction}}},
		},
	)
	if err != nil {
		return err
	}

	return g.parseAndStore(ctx, article, kind, result.Text())
}

func instructionFor(kind models.QuestionKind) (string, error) {
	switch kind {
	case models.QuestionMultipleChoice:
		return mcInstruction, nil
	case models.QuestionShortAnswer:
		return saInstruction, nil
	case models.QuestionLongAnswer:
		return laInstruction, nil
	default:
		return "", fmt.Errorf("unknown question kind: %s", kind)
	}
}

type mcPayload struct {
	Prompt      string   `json:"prompt"`
	Choices     []string `json:"choices"`
	AnswerIndex int      `json:"answer_index"`
}

type saPayload struct {
	Prompt string `json:"prompt"`
	Answer string `json:"answer"`
}

type laPayload struct {
	Prompt       string `json:"prompt"`
	SampleAnswer string `json:"sample_answer"`
}

func (g *Generator) parseAndStore(ctx context.Context, article *models.Article, kind models.QuestionKind, raw string) error {
	switch kind {
	case models.QuestionMultipleChoice:
		var payload []mcPayload
		if err := json.Unmarshal([]byte(raw), &payload); err != nil {
			return fmt.Errorf("parse mc questions: %w", err)
		}
		qs := make([]models.MCQuestion, 0, len(payload))
		for _, p := range payload {
			if len(p.Choices) == 0 || p.AnswerIndex < 0 || p.AnswerIndex >= len(p.Choices) {
				return fmt.Errorf("mc question %q has no valid answer", p.Prompt)
			}
			qs = append(qs, models.MCQuestion{
				ArticleID:   article.ID,
				Prompt:      p.Prompt,
				Choices:     p.Choices,
				AnswerIndex: p.AnswerIndex,
			})
		}
		return g.store.InsertMC(ctx, qs)

	case models.QuestionShortAnswer:
		var payload []saPayload
		if err := json.Unmarshal([]byte(raw), &payload); err != nil {
			return fmt.Errorf("parse sa questions: %w", err)
		}
		qs := make([]models.SAQuestion, 0, len(payload))
		for _, p := range payload {
			qs = append(qs, models.SAQuestion{
				ArticleID: article.ID,
				Prompt:    p.Prompt,
				Answer:    p.Answer,
			})
		}
		return g.store.InsertSA(ctx, qs)

	case models.QuestionLongAnswer:
		var payload []laPayload
		if err := json.Unmarshal([]byte(raw), &payload); err != nil {
			return fmt.Errorf("parse la questions: %w", err)
		}
		qs := make([]models.LAQuestion, 0, len(payload))
		for _, p := range payload {
			qs = append(qs, models.LAQuestion{
				ArticleID:    article.ID,
				Prompt:       p.Prompt,
				SampleAnswer: p.SampleAnswer,
			})
		}
		return g.store.InsertLA(ctx, qs)

	default:
		return fmt.Errorf("unknown question kind: %s", kind)
	}
}
