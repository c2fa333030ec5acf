package main

import (
	"bealive-agent-backend/config"
	"bealive-agent-backend/dao"
	"bealive-agent-backend/service/activity"
	"bealive-agent-backend/service/chatbot"
	"bealive-agent-backend/service/extract"
	"bealive-agent-backend/service/knowledge-base/etl"
	"bealive-agent-backend/service/llm"
	"bealive-agent-backend/service/mq"
	"bealive-agent-backend/service/sentiment"
	"bealive-agent-backend/service/session"
	"bealive-agent-backend/service/vector"
	"bealive-agent-backend/utils"
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tmc/langchaingo/schema"
)

// app is the wired process: configuration, database and every service built on them.
type app struct {
	indexes    *vector.Indexes
	syncIndex  *activity.SyncIndexer
	bot        *chatbot.Bot
	activities *activity.Service
	pipeline   *etl.Pipeline
}

type appOptions struct {
	// queued routes activity indexing through RocketMQ when it is configured
	queued bool
	source etl.Source
}

func configPath(cmd *cobra.Command) string {
	path, err := cmd.Flags().GetString("config")
	if err != nil || path == "" {
		return defaultConfigPath
	}
	return path
}

func newApp(ctx context.Context, path string, opts appOptions) (*app, error) {
	if err := config.Init(path); err != nil {
		return nil, err
	}
	cfg := config.Cfg

	if err := dao.Init(cfg.MySQL.DSN); err != nil {
		return nil, fmt.Errorf("failed to init database: %w", err)
	}

	model, err := llm.New()
	if err != nil {
		return nil, err
	}
	embedder, err := llm.NewEmbedder()
	if err != nil {
		return nil, err
	}
	indexes, err := vector.Open(ctx, cfg, embedder)
	if err != nil {
		return nil, err
	}

	store, err := session.NewStore(cfg)
	if err != nil {
		return nil, err
	}
	scorer, err := sentiment.New(cfg, model, utils.DefaultHTTPClient())
	if err != nil {
		return nil, err
	}

	sessions := session.NewManager(store, session.NewLLMSummarizer(model), cfg.Session.WindowSize,
		session.WithHistory(func(userID int64, sessionID string) schema.ChatMessageHistory {
			return session.NewMessageLog(userID, sessionID)
		}),
	)

	syncIndex := activity.NewSyncIndexer(indexes.Activities)
	var indexer activity.Indexer = syncIndex
	if opts.queued && cfg.MQ.Enabled() {
		indexer = mq.NewQueueIndexer()
	}

	source := opts.source
	if source == nil {
		source = etl.LocalSource{}
		if cfg.OSS.BucketName != "" {
			source = etl.NewOSSSource(cfg.OSS)
		}
	}

	return &app{
		indexes:   indexes,
		syncIndex: syncIndex,
		bot: chatbot.New(chatbot.Deps{
			Model:      model,
			Sessions:   sessions,
			Activities: indexes.Activities,
			Company:    indexes.Company,
			Sentiment:  scorer,
			Search: chatbot.SearchOptions{
				TopK:           cfg.Vector.TopK,
				ScoreThreshold: cfg.Vector.ScoreThreshold,
			},
			LogTurns: true,
		}),
		activities: activity.NewService(extract.New(model), indexer, nil),
		pipeline:   etl.NewPipeline(source, indexes.Company),
	}, nil
}

func (a *app) Close(ctx context.Context) error {
	return a.indexes.Close(ctx)
}
