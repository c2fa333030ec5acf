package activity

import (
	"bealive-agent-backend/dao"
	"bealive-agent-backend/model"
	"bealive-agent-backend/service/vector"
	"context"
	"fmt"
)

// SyncIndexer writes to the similarity index in the caller's goroutine.
type SyncIndexer struct {
	index vector.Index
}

var _ Indexer = &SyncIndexer{}

func NewSyncIndexer(index vector.Index) *SyncIndexer {
	return &SyncIndexer{index: index}
}

// Index embeds the activity and records its index reference.
func (i *SyncIndexer) Index(ctx context.Context, activity *model.Activity) error {
	err := i.index.Upsert(ctx, vector.Document{
		ID:   activity.ActivityID,
		Text: activity.IndexText(),
	})
	if err != nil {
		return fmt.Errorf("upsert activity %d: %w", activity.ActivityID, err)
	}

	key := activity.VectorKey()
	if err := dao.SetActivityVectorID(ctx, activity.ActivityID, &key); err != nil {
		return fmt.Errorf("save vector id of activity %d: %w", activity.ActivityID, err)
	}
	activity.VectorID = &key
	return nil
}

func (i *SyncIndexer) Unindex(ctx context.Context, ids ...int64) error {
	if len(ids) == 0 {
		return nil
	}
	return i.index.Delete(ctx, ids...)
}
