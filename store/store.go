// Package store implements the in-process retrieval corpus: documents are
// embedded once at construction and ranked by cosine similarity at query
// time. The store is immutable after New and safe for unlimited concurrent
// queries.
package store

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/ragrelay/ragrelay/logging"
	"github.com/ragrelay/ragrelay/model"
)

// Document is one corpus entry with its precomputed embedding. ID is the
// insertion index, which also serves as the ranking tie-breaker.
type Document struct {
	ID        int
	Text      string
	Embedding []float64
}

// Options configure a Store.
type Options struct {
	Logger logging.Logger
}

// Store holds the embedded corpus and the embedder used for queries.
type Store struct {
	docs     []Document
	embedder model.Embedder
	logger   logging.Logger
}

// New embeds every text through embedder and builds the store. Any embedding
// failure aborts construction; there is no partial store.
func New(ctx context.Context, texts []string, embedder model.Embedder, optFns ...func(o *Options)) (*Store, error) {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}

	docs := make([]Document, 0, len(texts))
	for i, text := range texts {
		embedding, err := embedder.Embed(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("store: embedding document %d: %w", i, err)
		}
		docs = append(docs, Document{ID: i, Text: text, Embedding: embedding})
	}

	opts.Logger.Info("store.build.complete", "documents", len(docs))

	return &Store{docs: docs, embedder: embedder, logger: opts.Logger}, nil
}

// Len returns the corpus size.
func (s *Store) Len() int { return len(s.docs) }

// Query embeds text and returns at most k documents ranked by descending
// cosine similarity. Equal scores keep corpus insertion order.
func (s *Store) Query(ctx context.Context, text string, k int) ([]Document, error) {
	if k <= 0 || len(s.docs) == 0 {
		return nil, nil
	}

	query, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("store: embedding query: %w", err)
	}

	ranked := make([]int, len(s.docs))
	scores := make([]float64, len(s.docs))
	for i, doc := range s.docs {
		ranked[i] = i
		scores[i] = cosineSimilarity(query, doc.Embedding)
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		return scores[ranked[a]] > scores[ranked[b]]
	})

	if k > len(ranked) {
		k = len(ranked)
	}
	hits := make([]Document, k)
	for i := 0; i < k; i++ {
		hits[i] = s.docs[ranked[i]]
	}

	s.logger.Debug("store.query.complete", "k", k, "hits", len(hits))

	return hits, nil
}

// Similarity scores text against a single document, exposed for tests and
// diagnostics. Returns the cosine of the angle between the embeddings.
func (s *Store) Similarity(query []float64, doc Document) float64 {
	return cosineSimilarity(query, doc.Embedding)
}

// cosineSimilarity computes dot(a,b)/(|a||b|). Mismatched dimensions or a
// zero-norm vector score 0.
func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
