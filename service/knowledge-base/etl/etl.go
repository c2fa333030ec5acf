// Package etl loads company documents into the company information index.
package etl

import (
	"bealive-agent-backend/dao"
	"bealive-agent-backend/model"
	"bealive-agent-backend/service/knowledge-base/etl/processor"
	"bealive-agent-backend/service/mq"
	"bealive-agent-backend/service/vector"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/apache/rocketmq-client-go/v2/primitive"
)

var ErrUnsupportedFileType = errors.New("unsupported file type")

type ETLMessage struct {
	FileType   model.FileType `json:"file_type"`
	ObjectName string         `json:"object_name"`
}

// Pipeline fetches documents from a source and runs the processor matching their type.
type Pipeline struct {
	source     Source
	index      vector.Index
	processors []processor.ETLProcessor
}

func NewPipeline(source Source, index vector.Index) *Pipeline {
	return &Pipeline{
		source: source,
		index:  index,
		processors: []processor.ETLProcessor{
			processor.NewMarkdownETLProcessor(index),
			processor.NewPDFETLProcessor(index),
		},
	}
}

// Ingest indexes objectName and records the outcome on its company document row.
func (p *Pipeline) Ingest(ctx context.Context, objectName string) (int, error) {
	fileType, ok := model.FileTypeOf(objectName)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedFileType, objectName)
	}

	previous, err := dao.GetCompanyDocument(ctx, objectName)
	if err != nil {
		return 0, fmt.Errorf("failed to load company document: %w", err)
	}
	if err := dao.SaveCompanyDocument(ctx, objectName, fileType); err != nil {
		return 0, fmt.Errorf("failed to save company document: %w", err)
	}

	chunks, err := p.run(ctx, objectName, fileType)
	if err != nil {
		if err := dao.UpdateCompanyDocumentStatus(ctx, objectName, model.StatusProcessedFailed, 0); err != nil {
			slog.Error("failed to update company document status", "object_name", objectName, "err", err)
		}
		return 0, err
	}

	if previous != nil && previous.Chunks > chunks {
		stale := make([]int64, 0, previous.Chunks-chunks)
		for n := chunks; n < previous.Chunks; n++ {
			stale = append(stale, processor.ChunkID(objectName, n))
		}
		if err := p.index.Delete(ctx, stale...); err != nil {
			slog.Warn("failed to delete stale chunks", "object_name", objectName, "err", err)
		}
	}

	if err := dao.UpdateCompanyDocumentStatus(ctx, objectName, model.StatusProcessed, chunks); err != nil {
		return chunks, fmt.Errorf("failed to update company document status: %w", err)
	}
	return chunks, nil
}

func (p *Pipeline) run(ctx context.Context, objectName string, fileType model.FileType) (int, error) {
	object, err := p.source.Fetch(ctx, objectName)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch %s: %w", objectName, err)
	}
	for _, proc := range p.processors {
		if proc.CanProcess(fileType) {
			chunks, err := proc.ExecuteETLPipeline(ctx, object, objectName)
			if err != nil {
				return 0, fmt.Errorf("failed to execute ETL pipeline: %w", err)
			}
			return chunks, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrUnsupportedFileType, fileType)
}

func (p *Pipeline) HandleETLMessage(ctx context.Context, msg *primitive.MessageExt) error {
	var etlMessage ETLMessage
	if err := json.Unmarshal(msg.Body, &etlMessage); err != nil {
		return fmt.Errorf("failed to unmarshal message body: %w", err)
	}

	chunks, err := p.Ingest(ctx, etlMessage.ObjectName)
	if errors.Is(err, ErrUnsupportedFileType) {
		// redelivery cannot help
		slog.Warn("dropping ETL message", "object_name", etlMessage.ObjectName, "err", err)
		return nil
	}
	if err != nil {
		return err
	}
	slog.Info("ingested company document", "object_name", etlMessage.ObjectName, "chunks", chunks)
	return nil
}

// Register consumes ETL messages from the knowledge base topic.
func (p *Pipeline) Register() error {
	return mq.Register(mq.ConsumeGroupKnowledgeBase, mq.TopicKnowledgeBase, map[string]mq.MessageHandler{
		mq.TagETL: p.HandleETLMessage,
	})
}

// Enqueue asks the knowledge base consumers to ingest objectName.
func Enqueue(ctx context.Context, objectName string) error {
	fileType, ok := model.FileTypeOf(objectName)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnsupportedFileType, objectName)
	}
	if err := dao.SaveCompanyDocument(ctx, objectName, fileType); err != nil {
		return fmt.Errorf("failed to save company document: %w", err)
	}
	return mq.SendMessage(ctx, &mq.Message{
		Topic:   mq.TopicKnowledgeBase,
		Tag:     mq.TagETL,
		Payload: ETLMessage{FileType: fileType, ObjectName: objectName},
	})
}
