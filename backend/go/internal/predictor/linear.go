package predictor

import (
	"KneeHeal/backend/go/internal/models"
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// LinearModel 是导出为 JSON 的线性回归模型 (例如 sklearn LinearRegression 的 coef_ 和 intercept_)。
type LinearModel struct {
	Intercept    float64   `json:"intercept"`
	Coefficients []float64 `json:"coefficients"`
}

// LoadLinearModel 从本地 JSON 文件加载线性模型。
func LoadLinearModel(path string) (*LinearModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("无法读取模型文件 '%s': %w", path, err)
	}
	var m LinearModel
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("解析模型文件失败: %w", err)
	}
	if len(m.Coefficients) != len(models.FeatureVector{}) {
		return nil, fmt.Errorf("%w: got %d coefficients", ErrDimension, len(m.Coefficients))
	}
	return &m, nil
}

// Predict 计算 intercept + Σ coef[i]*x[i]。
func (m *LinearModel) Predict(_ context.Context, features models.FeatureVector) (float64, error) {
	if len(m.Coefficients) != len(features) {
		return 0, fmt.Errorf("%w: got %d coefficients", ErrDimension, len(m.Coefficients))
	}
	y := m.Intercept
	for i, x := range features {
		y += m.Coefficients[i] * x
	}
	return y, nil
}
