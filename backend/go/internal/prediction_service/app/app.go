package app

import (
	"KneeHeal/backend/go/internal/config"
	"KneeHeal/backend/go/internal/database/firebase"
	"KneeHeal/backend/go/internal/database/kafka"
	"KneeHeal/backend/go/internal/database/minio"
	"KneeHeal/backend/go/internal/database/mongo"
	"KneeHeal/backend/go/internal/database/redis"
	"KneeHeal/backend/go/internal/prediction_service/publisher"
	"KneeHeal/backend/go/internal/prediction_service/service"
	"KneeHeal/backend/go/internal/prediction_service/store"
	"KneeHeal/backend/go/internal/predictor"
	apphttp "KneeHeal/backend/go/pkg/http"
	"KneeHeal/backend/go/pkg/logger"
	"context"
	"fmt"
	"time"
)

// App 持有预测服务及其外部资源, Close 负责按相反顺序释放。
type App struct {
	Service *service.Service
	closers []func()
}

// Close 释放所有已打开的外部连接。
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// New 按固定顺序装配服务: 先认证数据库, 再加载模型, 最后连接可选的事件下游。
// 任何一步失败都会释放已创建的资源并返回错误。
func New(ctx context.Context, cfg *config.AppConfig, log *logger.Logger) (_ *App, err error) {
	a := &App{}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	// 1. 认证实时数据库
	dbClient, err := firebase.NewClient(ctx, &cfg.Firebase)
	if err != nil {
		return nil, err
	}
	records := store.NewFirebaseRecordStore(dbClient)

	// 2. 加载模型
	if cfg.Model.Source.Enabled {
		objects, err := minio.NewClient(ctx, &cfg.Databases.MinIO, cfg.Model.Source.Bucket)
		if err != nil {
			return nil, err
		}
		if err := predictor.FetchArtifact(ctx, objects, cfg.Model.Source, cfg.Model.Path); err != nil {
			return nil, err
		}
		log.WithField("object", cfg.Model.Source.Object).Info("model artifact downloaded")
	}
	httpClient, err := apphttp.NewClient(cfg.Middleware.CircuitBreaker)
	if err != nil {
		return nil, err
	}
	model, err := predictor.NewPredictor(cfg.Model, httpClient)
	if err != nil {
		return nil, fmt.Errorf("加载模型失败: %w", err)
	}

	// 3. 可选的事件下游
	sinks, err := a.openSinks(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	a.Service = service.NewService(records, model, cfg.Firebase.UserID, cfg.Firebase.DataPath, log, sinks...)
	return a, nil
}

func (a *App) openSinks(ctx context.Context, cfg *config.AppConfig, log *logger.Logger) ([]service.AnnotationSink, error) {
	var sinks []service.AnnotationSink

	if kc := cfg.Databases.Kafka; kc.Enabled {
		if err := kafka.EnsureTopic(&kc); err != nil {
			return nil, err
		}
		pub := publisher.NewPredictionPublisher(kafka.NewWriter(&kc), log.WithField("component", "kafka_publisher"))
		a.closers = append(a.closers, func() { pub.Close() })
		sinks = append(sinks, pub)
	}

	if mc := cfg.Databases.MongoDB; mc.Enabled {
		client, db, err := mongo.NewClient(ctx, &mc)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() { client.Disconnect(context.Background()) })
		sinks = append(sinks, store.NewMongoPredictionArchive(db, mc.Collection))
	}

	if rc := cfg.Databases.Redis; rc.Enabled {
		var ttl time.Duration
		if rc.TTL != "" {
			d, err := time.ParseDuration(rc.TTL)
			if err != nil {
				return nil, fmt.Errorf("invalid redis ttl: %w", err)
			}
			ttl = d
		}
		client, err := redis.NewClient(ctx, &rc)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() { client.Close() })
		sinks = append(sinks, store.NewRedisLatestCache(client, ttl))
	}

	return sinks, nil
}
