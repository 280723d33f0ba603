package minio

import (
	"KneeHeal/backend/go/internal/config"
	"context"
	"fmt"
	"log"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// NewClient 创建 MinIO 客户端, 并确认模型所在的存储桶存在。
func NewClient(ctx context.Context, cfg *config.MinIOConfig, bucket string) (*minio.Client, error) {
	c, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.Secure,
	})
	if err != nil {
		return nil, fmt.Errorf("无法创建 MinIO 客户端: %w", err)
	}

	exists, err := c.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("MinIO 初始化健康检查失败: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("MinIO 存储桶 '%s' 不存在", bucket)
	}

	log.Println("✅ 成功连接到 MinIO!")
	return c, nil
}
