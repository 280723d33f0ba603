package service

import (
	"KneeHeal/backend/go/internal/advice"
	"KneeHeal/backend/go/internal/models"
	"KneeHeal/backend/go/internal/prediction_service/store"
	"KneeHeal/backend/go/internal/predictor"
	"KneeHeal/backend/go/pkg/logger"
	"context"
	"fmt"
	"sync"
)

const skipMessage = "Missing mpu1 or mpu2 data. Skipping."

// AnnotationSink 接收已经写回数据库的预测事件。
type AnnotationSink interface {
	Name() string
	Record(ctx context.Context, event *models.PredictionEvent) error
}

// Outcome 描述一次 RunOnce 的结果。
// Key 为空表示数据路径下没有任何记录。
type Outcome struct {
	Key        string
	Skipped    bool
	Features   models.FeatureVector
	Annotation *models.Annotation
}

// Service 负责读取最新传感器记录、预测膝关节角度并写回建议。
type Service struct {
	store     store.RecordStore
	predictor predictor.Predictor
	sinks     []AnnotationSink
	userID    string
	dataPath  string
	logger    *logger.Logger

	// 单写者: 同一时刻只允许一次 RunOnce。
	mu sync.Mutex
}

// NewService creates a new Service.
func NewService(s store.RecordStore, p predictor.Predictor, userID, dataPath string, logger *logger.Logger, sinks ...AnnotationSink) *Service {
	return &Service{
		store:     s,
		predictor: p,
		sinks:     sinks,
		userID:    userID,
		dataPath:  dataPath,
		logger:    logger,
	}
}

// RunOnce 处理数据路径下按键排序的最后一条记录。
// 缺少 mpu1 或 mpu2 时跳过且不写回; 其他任何失败都原样返回。
func (s *Service) RunOnce(ctx context.Context) (*Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	latest, err := s.store.FetchLatest(ctx, s.dataPath)
	if err != nil {
		return nil, fmt.Errorf("读取最新记录失败: %w", err)
	}
	if latest == nil {
		s.logger.WithField("path", s.dataPath).Debug("no sensor records found")
		return &Outcome{}, nil
	}

	log := s.logger.WithField("timestamp", latest.Key)
	if !latest.Record.HasSamples() {
		log.Info(skipMessage)
		return &Outcome{Key: latest.Key, Skipped: true}, nil
	}

	features, err := models.BuildFeatureVector(latest.Record.MPU1, latest.Record.MPU2)
	if err != nil {
		return nil, fmt.Errorf("构造特征向量失败 (timestamp %s): %w", latest.Key, err)
	}

	angle, err := s.predictor.Predict(ctx, features)
	if err != nil {
		return nil, fmt.Errorf("模型预测失败 (timestamp %s): %w", latest.Key, err)
	}

	annotation := models.Annotation{
		PredictedAngle: angle,
		Suggestions:    advice.Suggest(angle),
	}
	if err := s.store.Update(ctx, s.dataPath, latest.Key, annotation.Fields()); err != nil {
		return nil, fmt.Errorf("写回预测失败: %w", err)
	}
	log.WithField("predicted_angle", angle).
		Info(fmt.Sprintf("Prediction and suggestions updated in Firebase (timestamp %s).", latest.Key))

	event := models.NewPredictionEvent(s.userID, latest.Key, features, annotation)
	for _, sink := range s.sinks {
		if err := sink.Record(ctx, event); err != nil {
			return nil, fmt.Errorf("%s: 记录预测事件失败: %w", sink.Name(), err)
		}
	}

	return &Outcome{Key: latest.Key, Features: features, Annotation: &annotation}, nil
}

// History 返回最近 limit 条记录中已有预测角度的记录, 按键升序。
func (s *Service) History(ctx context.Context, limit int) ([]models.KeyedRecord, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}
	records, err := s.store.ListRecent(ctx, s.dataPath, limit)
	if err != nil {
		return nil, fmt.Errorf("读取历史记录失败: %w", err)
	}
	annotated := make([]models.KeyedRecord, 0, len(records))
	for _, r := range records {
		if r.Record.IsAnnotated() {
			annotated = append(annotated, r)
		}
	}
	return annotated, nil
}
