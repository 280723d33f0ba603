package predictor

import (
	"KneeHeal/backend/go/internal/config"
	"KneeHeal/backend/go/internal/models"
	apphttp "KneeHeal/backend/go/pkg/http"
	"context"
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedProvider 表示配置了未知的模型提供方式。
	ErrUnsupportedProvider = errors.New("unsupported model provider")
	// ErrDimension 表示模型参数与 12 维特征不匹配。
	ErrDimension = errors.New("model expects a different number of features")
	// ErrEmptyPrediction 表示推理后端没有返回任何输出。
	ErrEmptyPrediction = errors.New("model returned no prediction")
)

// Predictor 定义了膝关节角度回归模型的统一接口。
// 模型在进程生命周期内只加载一次, 之后只读。
type Predictor interface {
	Predict(ctx context.Context, features models.FeatureVector) (float64, error)
}

// NewPredictor 是一个工厂函数，根据配置加载模型并返回对应的 Predictor。
// 模型文件缺失或损坏时立即返回错误。
func NewPredictor(cfg config.ModelConfig, client *apphttp.Client) (Predictor, error) {
	switch cfg.Provider {
	case "python":
		return NewPythonPredictor(cfg.Interpreter, cfg.PythonScript, cfg.Path)
	case "linear":
		return LoadLinearModel(cfg.Path)
	case "http":
		if client == nil {
			return nil, fmt.Errorf("http provider requires an http client")
		}
		return NewRemotePredictor(client, cfg.Endpoint)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedProvider, cfg.Provider)
	}
}
