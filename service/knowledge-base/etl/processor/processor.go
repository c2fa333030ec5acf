package processor

import (
	"bealive-agent-backend/model"
	"bealive-agent-backend/service/vector"
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"strings"

	"github.com/tmc/langchaingo/schema"
	"github.com/tmc/langchaingo/textsplitter"
)

const (
	chunkSize    = 1000
	chunkOverlap = 100
)

var separators = []string{"\n\n", "\n", ". ", "! ", "? ", "; ", ", ", " ", ""}

// ETLProcessor splits one kind of company document into chunks and loads them into the
// company information index.
type ETLProcessor interface {
	// CanProcess reports whether the processor supports fileType.
	CanProcess(fileType model.FileType) bool

	// ExecuteETLPipeline indexes object and returns the number of chunks stored.
	ExecuteETLPipeline(ctx context.Context, object []byte, objectName string) (int, error)
}

// BaseETLProcessor holds what every processor shares: a splitter and the target index.
type BaseETLProcessor struct {
	TextSplitter textsplitter.TextSplitter
	Index        vector.Index
}

// ChunkID is the stable index id of chunk n of objectName, so re-ingesting a document
// replaces its chunks instead of duplicating them.
func ChunkID(objectName string, n int) int64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s#%d", objectName, n)
	return int64(h.Sum64() & math.MaxInt64)
}

// store upserts the non-empty chunks of docs under their stable ids.
func (p *BaseETLProcessor) store(ctx context.Context, docs []schema.Document, objectName string) (int, error) {
	chunks := make([]vector.Document, 0, len(docs))
	for _, doc := range docs {
		text := strings.TrimSpace(doc.PageContent)
		if text == "" {
			continue
		}
		chunks = append(chunks, vector.Document{
			ID:   ChunkID(objectName, len(chunks)),
			Text: text,
		})
	}
	if len(chunks) == 0 {
		return 0, fmt.Errorf("no text found in %s", objectName)
	}

	if err := p.Index.Upsert(ctx, chunks...); err != nil {
		return 0, fmt.Errorf("error upserting chunks: %w", err)
	}
	return len(chunks), nil
}
