package predictor

import (
	"KneeHeal/backend/go/internal/config"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/minio/minio-go/v7"
)

// ObjectGetter 是 *minio.Client 中下载对象到本地文件所需的部分。
type ObjectGetter interface {
	FGetObject(ctx context.Context, bucketName, objectName, filePath string, opts minio.GetObjectOptions) error
}

// FetchArtifact 把模型文件从对象存储下载到 localPath, 覆盖已有文件。
func FetchArtifact(ctx context.Context, getter ObjectGetter, src config.ModelSourceConfig, localPath string) error {
	if src.Bucket == "" || src.Object == "" {
		return fmt.Errorf("model source requires bucket and object")
	}
	if dir := filepath.Dir(localPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("无法创建模型目录 '%s': %w", dir, err)
		}
	}
	if err := getter.FGetObject(ctx, src.Bucket, src.Object, localPath, minio.GetObjectOptions{}); err != nil {
		return fmt.Errorf("下载模型 %s/%s 失败: %w", src.Bucket, src.Object, err)
	}
	return nil
}
