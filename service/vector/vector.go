// Package vector stores embedded texts keyed by int64 ids and answers similarity queries.
package vector

import (
	"bealive-agent-backend/config"
	"context"
	"errors"
	"fmt"

	"github.com/milvus-io/milvus/client/v2/milvusclient"
	"github.com/tmc/langchaingo/embeddings"
)

// Document is one text to index.
type Document struct {
	ID   int64
	Text string
}

// Hit is a search result.
type Hit struct {
	ID    int64
	Score float32
	Text  string
}

type SearchOptions struct {
	TopK           int
	ScoreThreshold float32

	// IDs restricts the search to these documents. Nil means no restriction;
	// an empty non-nil slice matches nothing.
	IDs []int64
}

// Index is a similarity index over one collection.
type Index interface {
	Upsert(ctx context.Context, docs ...Document) error
	Delete(ctx context.Context, ids ...int64) error
	// Search returns up to TopK hits scoring at least ScoreThreshold, best first.
	Search(ctx context.Context, query string, opts SearchOptions) ([]Hit, error)
}

// Indexes holds the activity and company collections of one backend.
type Indexes struct {
	Activities Index
	Company    Index

	close func(ctx context.Context) error
}

func (i *Indexes) Close(ctx context.Context) error {
	if i.close == nil {
		return nil
	}
	return i.close(ctx)
}

// Open connects to the backend selected by cfg.
func Open(ctx context.Context, cfg *config.Config, embedder embeddings.Embedder) (*Indexes, error) {
	switch cfg.Vector.Provider {
	case config.VectorProviderChromem:
		db, err := OpenChromemDB(cfg.Vector.Path)
		if err != nil {
			return nil, err
		}
		embed := EmbeddingFunc(embedder)
		activities, err := NewChromem(db, cfg.Vector.ActivityCollection, embed)
		if err != nil {
			return nil, err
		}
		company, err := NewChromem(db, cfg.Vector.CompanyCollection, embed)
		if err != nil {
			return nil, err
		}
		return &Indexes{Activities: activities, Company: company}, nil

	case config.VectorProviderMilvus:
		client, err := milvusclient.New(ctx, &milvusclient.ClientConfig{
			Address: cfg.Milvus.Endpoint,
			APIKey:  cfg.Milvus.APIKey,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create milvus client: %w", err)
		}
		return &Indexes{
			Activities: NewMilvus(client, cfg.Vector.ActivityCollection, cfg.Vector.Dim, embedder),
			Company:    NewMilvus(client, cfg.Vector.CompanyCollection, cfg.Vector.Dim, embedder),
			close:      client.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unknown vector provider %q", cfg.Vector.Provider)
	}
}

var errTopK = errors.New("top k must be positive")

func allowed(ids []int64) map[int64]bool {
	if ids == nil {
		return nil
	}
	set := make(map[int64]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
