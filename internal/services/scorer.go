package services

import (
	"context"
	"fmt"
	"math"

	"alfredoptarigan/application-processor/internal/apperrors"
)

// Scorer computes the semantic match between resume text and a job summary
// as cosine similarity over mean-pooled chunk embeddings, rescaled into
// [0, 100]. Identical inputs always score identically: embeddings are
// requested with no sampling.
type Scorer interface {
	Score(ctx context.Context, resumeText, summaryText string) (*ScoreResult, error)
	// Embed produces the same mean-pooled vector the scorer compares and
	// the similarity index stores.
	Embed(ctx context.Context, text string) ([]float32, error)
}

type ScoreResult struct {
	Value           float64
	ResumeEmbedding []float32
}

const (
	scoreChunkSize    = 2000
	scoreChunkOverlap = 0
)

type scorer struct {
	gemini  GeminiService
	chunker TextChunker
}

func NewScorer(gemini GeminiService, chunker TextChunker) Scorer {
	return &scorer{gemini: gemini, chunker: chunker}
}

func (s *scorer) Score(ctx context.Context, resumeText, summaryText string) (*ScoreResult, error) {
	resumeVec, err := s.embedText(ctx, resumeText)
	if err != nil {
		return nil, apperrors.NewDependency("score", "failed to embed resume text", err)
	}

	summaryVec, err := s.embedText(ctx, summaryText)
	if err != nil {
		return nil, apperrors.NewDependency("score", "failed to embed job summary", err)
	}

	similarity, err := cosineSimilarity(resumeVec, summaryVec)
	if err != nil {
		return nil, apperrors.NewDependency("score", "failed to compare embeddings", err)
	}

	// Clamp the native range to [0,1] before rescaling to [0,100].
	if similarity < 0 {
		similarity = 0
	}
	if similarity > 1 {
		similarity = 1
	}
	value := math.Round(similarity*100*100) / 100

	return &ScoreResult{Value: value, ResumeEmbedding: resumeVec}, nil
}

// Embed implements Scorer.
func (s *scorer) Embed(ctx context.Context, text string) ([]float32, error) {
	return s.embedText(ctx, text)
}

// embedText embeds the text chunk by chunk and mean-pools the vectors, so
// long resumes do not get truncated at the embedding model's input limit.
func (s *scorer) embedText(ctx context.Context, text string) ([]float32, error) {
	chunks := s.chunker.ChunkText(text, scoreChunkSize, scoreChunkOverlap)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("no text to embed")
	}

	var pooled []float64
	for _, chunk := range chunks {
		vec, err := s.gemini.GenerateEmbedding(ctx, chunk)
		if err != nil {
			// One retry on a bad embedding response, then escalate.
			vec, err = s.gemini.GenerateEmbedding(ctx, chunk)
		}
		if err != nil {
			return nil, err
		}
		if pooled == nil {
			pooled = make([]float64, len(vec))
		}
		if len(vec) != len(pooled) {
			return nil, fmt.Errorf("embedding dimension mismatch: %d != %d", len(vec), len(pooled))
		}
		for i, v := range vec {
			pooled[i] += float64(v)
		}
	}

	mean := make([]float32, len(pooled))
	for i, v := range pooled {
		mean[i] = float32(v / float64(len(chunks)))
	}
	return mean, nil
}

func cosineSimilarity(a, b []float32) (float64, error) {
	if len(a) == 0 || len(a) != len(b) {
		return 0, fmt.Errorf("vectors must be non-empty and of equal length")
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0, fmt.Errorf("zero-magnitude embedding")
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}
