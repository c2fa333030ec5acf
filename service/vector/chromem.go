package vector

import (
	"context"
	"fmt"
	"strconv"

	"github.com/philippgille/chromem-go"
	"github.com/tmc/langchaingo/embeddings"
)

// OpenChromemDB opens a persistent database at path, or an in-memory one when path is empty.
func OpenChromemDB(path string) (*chromem.DB, error) {
	if path == "" {
		return chromem.NewDB(), nil
	}
	db, err := chromem.NewPersistentDB(path, false)
	if err != nil {
		return nil, fmt.Errorf("failed to create vector DB: %w", err)
	}
	return db, nil
}

// EmbeddingFunc wraps a langchaingo embedder as a chromem embedding function.
func EmbeddingFunc(embedder embeddings.Embedder) chromem.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		return embedder.EmbedQuery(ctx, text)
	}
}

// Chromem is an embedded index backed by one chromem-go collection.
type Chromem struct {
	col *chromem.Collection
}

var _ Index = (*Chromem)(nil)

func NewChromem(db *chromem.DB, collection string, embed chromem.EmbeddingFunc) (*Chromem, error) {
	col, err := db.GetOrCreateCollection(collection, nil, embed)
	if err != nil {
		return nil, fmt.Errorf("failed to open collection %s: %w", collection, err)
	}
	return &Chromem{col: col}, nil
}

func (c *Chromem) Upsert(ctx context.Context, docs ...Document) error {
	for _, doc := range docs {
		if err := c.col.AddDocument(ctx, chromem.Document{
			ID:      strconv.FormatInt(doc.ID, 10),
			Content: doc.Text,
		}); err != nil {
			return fmt.Errorf("failed to add document %d: %w", doc.ID, err)
		}
	}
	return nil
}

func (c *Chromem) Delete(ctx context.Context, ids ...int64) error {
	if len(ids) == 0 {
		return nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = strconv.FormatInt(id, 10)
	}
	return c.col.Delete(ctx, nil, nil, keys...)
}

func (c *Chromem) Search(ctx context.Context, query string, opts SearchOptions) ([]Hit, error) {
	if opts.TopK <= 0 {
		return nil, errTopK
	}
	if opts.IDs != nil && len(opts.IDs) == 0 {
		return nil, nil
	}

	// chromem rejects nResults above the collection size; restricted searches rank the
	// whole collection and filter afterwards.
	n := c.col.Count()
	if n == 0 {
		return nil, nil
	}
	if opts.IDs == nil {
		n = min(n, opts.TopK)
	}

	results, err := c.col.Query(ctx, query, n, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	keep := allowed(opts.IDs)
	var hits []Hit
	for _, r := range results {
		if r.Similarity < opts.ScoreThreshold {
			continue
		}
		id, err := strconv.ParseInt(r.ID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("corrupt document id %q: %w", r.ID, err)
		}
		if keep != nil && !keep[id] {
			continue
		}
		hits = append(hits, Hit{ID: id, Score: r.Similarity, Text: r.Content})
		if len(hits) == opts.TopK {
			break
		}
	}
	return hits, nil
}
