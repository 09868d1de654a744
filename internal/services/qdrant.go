package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/qdrant/go-client/qdrant"

	"alfredoptarigan/application-processor/internal/models"
)

// SimilarityIndex stores resume embeddings of committed applications and
// answers nearest-neighbour queries for recruiters. It is advisory only:
// duplicate detection stays exact-match in Postgres.
type SimilarityIndex interface {
	InitCollection() error
	UpsertApplication(ctx context.Context, applicationID, email string, embedding []float32) error
	SearchSimilar(ctx context.Context, embedding []float32, limit int) ([]models.SimilarApplication, error)
}

type qdrantIndex struct {
	client         *qdrant.Client
	collectionName string
	vectorSize     uint64
}

func NewQdrantIndex(urlStr, apiKey, collectionName string) (SimilarityIndex, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsed.Hostname()
	useTLS := parsed.Scheme == "https"

	// gRPC port
	port := 6334
	if p := parsed.Port(); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: apiKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &qdrantIndex{
		client:         client,
		collectionName: collectionName,
		vectorSize:     768, // text-embedding-004 dimension
	}, nil
}

// InitCollection implements SimilarityIndex.
func (q *qdrantIndex) InitCollection() error {
	ctx := context.Background()

	exists, err := q.client.CollectionExists(ctx, q.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}
	if exists {
		return nil
	}

	err = q.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: q.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     q.vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	return nil
}

// UpsertApplication implements SimilarityIndex. The application ID doubles
// as the point ID, so re-indexing the same row overwrites its vector.
func (q *qdrantIndex) UpsertApplication(ctx context.Context, applicationID, email string, embedding []float32) error {
	point := &qdrant.PointStruct{
		Id:      qdrant.NewIDUUID(applicationID),
		Vectors: qdrant.NewVectors(embedding...),
		Payload: qdrant.NewValueMap(map[string]interface{}{
			"application_id": applicationID,
			"email":          email,
		}),
	}

	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.collectionName,
		Points:         []*qdrant.PointStruct{point},
	})
	if err != nil {
		return fmt.Errorf("failed to upsert point: %w", err)
	}

	return nil
}

// SearchSimilar implements SimilarityIndex.
func (q *qdrantIndex) SearchSimilar(ctx context.Context, embedding []float32, limit int) ([]models.SimilarApplication, error) {
	if limit <= 0 {
		limit = 5
	}

	points, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: q.collectionName,
		Query:          qdrant.NewQuery(embedding...),
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	var results []models.SimilarApplication
	for _, point := range points {
		result := models.SimilarApplication{Similarity: point.Score}

		if id, ok := point.Payload["application_id"]; ok {
			if val, ok := id.GetKind().(*qdrant.Value_StringValue); ok {
				result.ApplicationID = val.StringValue
			}
		}
		if email, ok := point.Payload["email"]; ok {
			if val, ok := email.GetKind().(*qdrant.Value_StringValue); ok {
				result.Email = val.StringValue
			}
		}

		results = append(results, result)
	}

	return results, nil
}
