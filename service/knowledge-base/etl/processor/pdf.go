package processor

import (
	"bealive-agent-backend/model"
	"bealive-agent-backend/service/vector"
	"bytes"
	"context"
	"fmt"

	"github.com/tmc/langchaingo/documentloaders"
	"github.com/tmc/langchaingo/textsplitter"
)

type PDFETLProcessor struct {
	BaseETLProcessor
}

var _ ETLProcessor = &PDFETLProcessor{}

func NewPDFETLProcessor(index vector.Index) *PDFETLProcessor {
	textSplitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithSeparators(separators),
		textsplitter.WithChunkSize(chunkSize),
		textsplitter.WithChunkOverlap(chunkOverlap),
	)

	return &PDFETLProcessor{
		BaseETLProcessor: BaseETLProcessor{
			TextSplitter: textSplitter,
			Index:        index,
		},
	}
}

func (p *PDFETLProcessor) CanProcess(fileType model.FileType) bool {
	return fileType == model.FileTypePDF
}

func (p *PDFETLProcessor) ExecuteETLPipeline(ctx context.Context, object []byte, objectName string) (int, error) {
	loader := documentloaders.NewPDF(bytes.NewReader(object), int64(len(object)))

	docs, err := loader.LoadAndSplit(ctx, p.TextSplitter)
	if err != nil {
		return 0, fmt.Errorf("error loading and splitting pdf: %w", err)
	}
	return p.store(ctx, docs, objectName)
}
