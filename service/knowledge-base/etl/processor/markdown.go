package processor

import (
	"bealive-agent-backend/model"
	"bealive-agent-backend/service/vector"
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/tmc/langchaingo/documentloaders"
	"github.com/tmc/langchaingo/schema"
	"github.com/tmc/langchaingo/textsplitter"
)

// matches chunks such as "# xxx ## xxx"
var headerOnlyRegex = regexp.MustCompile(`^\s*(?:#{1,6}\s+.+\n?)+\s*$`)

// MarkdownETLProcessor handles markdown and plain text files.
type MarkdownETLProcessor struct {
	BaseETLProcessor
}

var _ ETLProcessor = &MarkdownETLProcessor{}

func NewMarkdownETLProcessor(index vector.Index) *MarkdownETLProcessor {
	textSplitter := textsplitter.NewMarkdownTextSplitter(
		textsplitter.WithChunkSize(chunkSize),
		textsplitter.WithChunkOverlap(chunkOverlap),
		textsplitter.WithHeadingHierarchy(true), // keep parent headings in each chunk
		textsplitter.WithSecondSplitter(textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(chunkSize),
			textsplitter.WithChunkOverlap(chunkOverlap),
			textsplitter.WithSeparators(separators),
		)),
	)

	return &MarkdownETLProcessor{
		BaseETLProcessor: BaseETLProcessor{
			TextSplitter: textSplitter,
			Index:        index,
		},
	}
}

func (p *MarkdownETLProcessor) CanProcess(fileType model.FileType) bool {
	return fileType == model.FileTypeMarkdown || fileType == model.FileTypeText
}

func (p *MarkdownETLProcessor) ExecuteETLPipeline(ctx context.Context, object []byte, objectName string) (int, error) {
	loader := documentloaders.NewText(bytes.NewReader(object))

	docs, err := loader.LoadAndSplit(ctx, p.TextSplitter)
	if err != nil {
		return 0, fmt.Errorf("error loading and splitting markdown: %w", err)
	}
	docs = filterStandaloneHeaders(docs)

	slog.Debug("split markdown successfully",
		"object_name", objectName,
		"chunks", len(docs),
	)
	return p.store(ctx, docs, objectName)
}

// filterStandaloneHeaders drops chunks made only of headings.
func filterStandaloneHeaders(docs []schema.Document) []schema.Document {
	var filtered []schema.Document
	for _, doc := range docs {
		content := strings.TrimSpace(doc.PageContent)
		if content == "" || headerOnlyRegex.MatchString(content) {
			continue
		}
		filtered = append(filtered, doc)
	}
	return filtered
}
