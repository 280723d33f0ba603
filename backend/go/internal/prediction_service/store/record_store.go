package store

import (
	"KneeHeal/backend/go/internal/models"
	"context"
	"fmt"

	"firebase.google.com/go/v4/db"
)

// RecordStore 定义了传感器记录的读写接口。
type RecordStore interface {
	// FetchLatest 按键排序取 path 下最后一条记录, 没有记录时返回 nil。
	FetchLatest(ctx context.Context, path string) (*models.KeyedRecord, error)
	// ListRecent 按键升序返回 path 下最后 limit 条记录。
	ListRecent(ctx context.Context, path string, limit int) ([]models.KeyedRecord, error)
	// Update 对 path/key 做部分合并更新, 只覆盖 fields 中的字段。
	Update(ctx context.Context, path, key string, fields map[string]interface{}) error
}

// FirebaseRecordStore 是基于 Firebase 实时数据库的 RecordStore 实现。
type FirebaseRecordStore struct {
	client *db.Client
}

// NewFirebaseRecordStore creates a new FirebaseRecordStore.
func NewFirebaseRecordStore(client *db.Client) *FirebaseRecordStore {
	return &FirebaseRecordStore{client: client}
}

func (s *FirebaseRecordStore) FetchLatest(ctx context.Context, path string) (*models.KeyedRecord, error) {
	records, err := s.ListRecent(ctx, path, 1)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return &records[len(records)-1], nil
}

func (s *FirebaseRecordStore) ListRecent(ctx context.Context, path string, limit int) ([]models.KeyedRecord, error) {
	nodes, err := s.client.NewRef(path).OrderByKey().LimitToLast(limit).GetOrdered(ctx)
	if err != nil {
		return nil, fmt.Errorf("查询 '%s' 失败: %w", path, err)
	}
	records := make([]models.KeyedRecord, 0, len(nodes))
	for _, node := range nodes {
		var rec models.Record
		if err := node.Unmarshal(&rec); err != nil {
			return nil, fmt.Errorf("解析记录 '%s/%s' 失败: %w", path, node.Key(), err)
		}
		records = append(records, models.KeyedRecord{Key: node.Key(), Record: rec})
	}
	return records, nil
}

func (s *FirebaseRecordStore) Update(ctx context.Context, path, key string, fields map[string]interface{}) error {
	if err := s.client.NewRef(path).Child(key).Update(ctx, fields); err != nil {
		return fmt.Errorf("更新记录 '%s/%s' 失败: %w", path, key, err)
	}
	return nil
}
