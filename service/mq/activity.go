package mq

import (
	"bealive-agent-backend/dao"
	"bealive-agent-backend/model"
	"bealive-agent-backend/service/activity"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/apache/rocketmq-client-go/v2/primitive"
)

type ActivityMessage struct {
	ActivityIDs []int64 `json:"activity_ids"`
}

// QueueIndexer defers activity indexing to the activity consumers.
type QueueIndexer struct {
	send func(context.Context, *Message) error
}

var _ activity.Indexer = &QueueIndexer{}

func NewQueueIndexer() *QueueIndexer {
	return &QueueIndexer{send: SendMessage}
}

func (q *QueueIndexer) Index(ctx context.Context, a *model.Activity) error {
	return q.send(ctx, &Message{
		Topic:   TopicActivity,
		Tag:     TagIndex,
		Payload: ActivityMessage{ActivityIDs: []int64{a.ActivityID}},
	})
}

func (q *QueueIndexer) Unindex(ctx context.Context, ids ...int64) error {
	if len(ids) == 0 {
		return nil
	}
	return q.send(ctx, &Message{
		Topic:   TopicActivity,
		Tag:     TagUnindex,
		Payload: ActivityMessage{ActivityIDs: ids},
	})
}

// RegisterActivityHandlers applies queued index changes through indexer.
func RegisterActivityHandlers(indexer *activity.SyncIndexer) error {
	return Register(ConsumeGroupActivity, TopicActivity, map[string]MessageHandler{
		TagIndex:   IndexHandler(indexer),
		TagUnindex: UnindexHandler(indexer),
	})
}

// IndexHandler indexes the activities of a message that are still open or full.
func IndexHandler(indexer activity.Indexer) MessageHandler {
	return func(ctx context.Context, msg *primitive.MessageExt) error {
		m, err := decodeActivityMessage(msg)
		if err != nil {
			return err
		}
		for _, id := range m.ActivityIDs {
			a, err := dao.GetActivity(ctx, id)
			if errors.Is(err, dao.ErrActivityNotFound) {
				slog.Debug("skip indexing deleted activity", "activity_id", id)
				continue
			}
			if err != nil {
				return err
			}
			if a.ActivityState == model.ActivityFinished {
				continue
			}
			if err := indexer.Index(ctx, a); err != nil {
				return err
			}
		}
		return nil
	}
}

func UnindexHandler(indexer activity.Indexer) MessageHandler {
	return func(ctx context.Context, msg *primitive.MessageExt) error {
		m, err := decodeActivityMessage(msg)
		if err != nil {
			return err
		}
		return indexer.Unindex(ctx, m.ActivityIDs...)
	}
}

func decodeActivityMessage(msg *primitive.MessageExt) (ActivityMessage, error) {
	var m ActivityMessage
	if err := json.Unmarshal(msg.Body, &m); err != nil {
		return m, fmt.Errorf("failed to unmarshal message body: %w", err)
	}
	return m, nil
}
