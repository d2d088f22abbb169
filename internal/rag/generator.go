package rag

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/nexustrace/backend/internal/domain"
	"github.com/nexustrace/backend/pkg/logger"
)

const generatorSystemPrompt = `You are a forensic intelligence assistant.
Answer the user's question based ONLY on the provided context.
You MUST verify your answer by citing the exact Chunk IDs in the format [Chunk ID].
If the answer cannot be determined from the context, say "Insufficient data".

Return your response in the following JSON format:
{
    "answer": "Your comprehensive answer here",
    "cited_chunks": ["chunk_id_1", "chunk_id_2"],
    "reasoning_summary": "Brief explanation of how you derived the answer",
    "confidence_score": 0.0 to 1.0
}`

// Completer sends a grounded prompt to the language model service.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userMessage string) (string, error)
}

type Generator struct {
	llm Completer
}

func NewGenerator(llm Completer) *Generator {
	return &Generator{llm: llm}
}

type generatorResponse struct {
	Answer           string   `json:"answer"`
	CitedChunks      []string `json:"cited_chunks"`
	ReasoningSummary string   `json:"reasoning_summary"`
	ConfidenceScore  float64  `json:"confidence_score"`
}

// Generate asks the model for a structured, citation-backed answer. Any
// failure to obtain or parse a structured response degrades to a sentinel
// error answer with confidence 0.0 instead of an error; callers treat that
// as a valid low-confidence outcome.
func (g *Generator) Generate(ctx context.Context, question, contextBlock string) domain.Answer {
	userMessage := fmt.Sprintf("Question: %s\n\nContext:\n%s", question, contextBlock)

	content, err := g.llm.Complete(ctx, generatorSystemPrompt, userMessage)
	if err != nil {
		logger.Error("Answer generation failed", zap.Error(err))
		return errorAnswer(err)
	}

	content = stripCodeFence(content)

	var parsed generatorResponse
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		logger.Error("Failed to parse generator response", zap.Error(err))
		return errorAnswer(err)
	}

	cited := parsed.CitedChunks
	if cited == nil {
		cited = []string{}
	}
	return domain.Answer{
		Answer:           parsed.Answer,
		CitedChunks:      cited,
		ReasoningSummary: parsed.ReasoningSummary,
		ConfidenceScore:  parsed.ConfidenceScore,
	}
}

func errorAnswer(err error) domain.Answer {
	return domain.Answer{
		Answer:           "Error processing request.",
		CitedChunks:      []string{},
		ReasoningSummary: err.Error(),
		ConfidenceScore:  0.0,
	}
}

// stripCodeFence unwraps a response the model wrapped in a markdown fence.
func stripCodeFence(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.ReplaceAll(content, "```", "")
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		content = strings.ReplaceAll(content, "```", "")
	}
	return strings.TrimSpace(content)
}
