package firebase

import (
	"KneeHeal/backend/go/internal/config"
	"context"
	"fmt"
	"log"
	"os"

	fb "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/db"
	"google.golang.org/api/option"
)

// NewClient 使用服务账号证书认证并返回实时数据库客户端。
// 客户端在进程启动时创建一次, 由调用方显式传递, 不放入全局变量。
func NewClient(ctx context.Context, cfg *config.FirebaseConfig) (*db.Client, error) {
	if _, err := os.Stat(cfg.CredentialsFile); err != nil {
		return nil, fmt.Errorf("无法读取 Firebase 证书 '%s': %w", cfg.CredentialsFile, err)
	}

	app, err := fb.NewApp(ctx, &fb.Config{DatabaseURL: cfg.DatabaseURL}, option.WithCredentialsFile(cfg.CredentialsFile))
	if err != nil {
		return nil, fmt.Errorf("无法初始化 Firebase 应用: %w", err)
	}

	client, err := app.Database(ctx)
	if err != nil {
		return nil, fmt.Errorf("无法连接到 Firebase 实时数据库: %w", err)
	}

	log.Println("✅ 成功连接到 Firebase 实时数据库!")
	return client, nil
}
