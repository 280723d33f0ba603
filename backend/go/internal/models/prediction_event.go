package models

import (
	"time"

	"github.com/google/uuid"
)

// PredictionEvent 描述一次成功写回的预测, 会被发送到 Kafka、归档到 MongoDB 并缓存到 Redis。
type PredictionEvent struct {
	ID             string    `json:"id" bson:"_id"`
	UserID         string    `json:"user_id" bson:"user_id"`
	RecordKey      string    `json:"record_key" bson:"record_key"`
	PredictedAngle float64   `json:"predicted_angle" bson:"predicted_angle"`
	Suggestions    []string  `json:"suggestions" bson:"suggestions"`
	Features       []float64 `json:"features" bson:"features"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at"`
}

// NewPredictionEvent 为一条已写回的记录创建事件。
func NewPredictionEvent(userID, key string, features FeatureVector, a Annotation) *PredictionEvent {
	return &PredictionEvent{
		ID:             uuid.New().String(),
		UserID:         userID,
		RecordKey:      key,
		PredictedAngle: a.PredictedAngle,
		Suggestions:    a.Suggestions,
		Features:       features.Slice(),
		CreatedAt:      time.Now().UTC(),
	}
}
