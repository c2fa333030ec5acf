package vector

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/milvus-io/milvus/client/v2/column"
	"github.com/milvus-io/milvus/client/v2/entity"
	"github.com/milvus-io/milvus/client/v2/milvusclient"
	"github.com/tmc/langchaingo/embeddings"
)

const (
	idField     = "id"
	textField   = "text"
	vectorField = "vector"
)

// Milvus is an index backed by a Milvus collection with an int64 id, a varchar text and a
// COSINE float vector field.
type Milvus struct {
	client     *milvusclient.Client
	collection string
	dim        int
	embedder   embeddings.Embedder
}

var _ Index = (*Milvus)(nil)

func NewMilvus(client *milvusclient.Client, collection string, dim int, embedder embeddings.Embedder) *Milvus {
	return &Milvus{
		client:     client,
		collection: collection,
		dim:        dim,
		embedder:   embedder,
	}
}

func (m *Milvus) Upsert(ctx context.Context, docs ...Document) error {
	if len(docs) == 0 {
		return nil
	}

	ids := make([]int64, len(docs))
	texts := make([]string, len(docs))
	for i, doc := range docs {
		ids[i] = doc.ID
		texts[i] = doc.Text
	}

	vectors, err := m.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return fmt.Errorf("error embedding documents: %w", err)
	}

	opt := milvusclient.NewColumnBasedInsertOption(m.collection).WithColumns(
		column.NewColumnInt64(idField, ids),
		column.NewColumnVarChar(textField, texts),
		column.NewColumnFloatVector(vectorField, m.dim, vectors),
	)
	if _, err := m.client.Upsert(ctx, opt); err != nil {
		return fmt.Errorf("error upserting into %s: %w", m.collection, err)
	}
	return nil
}

func (m *Milvus) Delete(ctx context.Context, ids ...int64) error {
	if len(ids) == 0 {
		return nil
	}
	opt := milvusclient.NewDeleteOption(m.collection).WithInt64IDs(idField, ids)
	if _, err := m.client.Delete(ctx, opt); err != nil {
		return fmt.Errorf("error deleting from %s: %w", m.collection, err)
	}
	return nil
}

func (m *Milvus) Search(ctx context.Context, query string, opts SearchOptions) ([]Hit, error) {
	if opts.TopK <= 0 {
		return nil, errTopK
	}
	if opts.IDs != nil && len(opts.IDs) == 0 {
		return nil, nil
	}

	vector, err := m.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error embedding query: %w", err)
	}

	opt := milvusclient.NewSearchOption(m.collection, opts.TopK, []entity.Vector{entity.FloatVector(vector)}).
		WithANNSField(vectorField).
		WithOutputFields(textField)
	if opts.IDs != nil {
		opt = opt.WithFilter(idFilter(opts.IDs))
	}

	results, err := m.client.Search(ctx, opt)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}
	if len(results) == 0 {
		return nil, nil
	}

	rs := results[0]
	if rs.Err != nil {
		return nil, fmt.Errorf("vector search failed: %w", rs.Err)
	}
	texts := rs.GetColumn(textField)
	var hits []Hit
	for i := 0; i < rs.ResultCount; i++ {
		if rs.Scores[i] < opts.ScoreThreshold {
			continue
		}
		id, err := rs.IDs.GetAsInt64(i)
		if err != nil {
			return nil, fmt.Errorf("failed to read id: %w", err)
		}
		hit := Hit{ID: id, Score: rs.Scores[i]}
		if texts != nil {
			if hit.Text, err = texts.GetAsString(i); err != nil {
				return nil, fmt.Errorf("failed to read text: %w", err)
			}
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

func idFilter(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return fmt.Sprintf("%s in [%s]", idField, strings.Join(parts, ","))
}
