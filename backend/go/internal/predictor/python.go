package predictor

import (
	"KneeHeal/backend/go/internal/models"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// PythonPredictor 通过 python 脚本对 joblib/pickle 格式的模型进行推理。
type PythonPredictor struct {
	interpreter string
	scriptPath  string
	modelPath   string
}

// NewPythonPredictor 检查脚本和模型文件都存在后创建 PythonPredictor。
func NewPythonPredictor(interpreter, scriptPath, modelPath string) (*PythonPredictor, error) {
	if _, err := os.Stat(modelPath); err != nil {
		return nil, fmt.Errorf("无法加载模型文件 '%s': %w", modelPath, err)
	}
	if _, err := os.Stat(scriptPath); err != nil {
		return nil, fmt.Errorf("找不到推理脚本 '%s': %w", scriptPath, err)
	}
	return &PythonPredictor{interpreter: interpreter, scriptPath: scriptPath, modelPath: modelPath}, nil
}

// Predict 以单行批次调用脚本, 脚本在标准输出打印 {"prediction": <float>}。
func (p *PythonPredictor) Predict(ctx context.Context, features models.FeatureVector) (float64, error) {
	arg, err := json.Marshal(features.Slice())
	if err != nil {
		return 0, fmt.Errorf("failed to marshal features: %w", err)
	}

	cmd := exec.CommandContext(ctx, p.interpreter, p.scriptPath, p.modelPath, string(arg))
	var out, errOut bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errOut

	if err := cmd.Run(); err != nil {
		return 0, fmt.Errorf("failed to run python script: %w, stderr: %s", err, strings.TrimSpace(errOut.String()))
	}

	var response struct {
		Prediction *float64 `json:"prediction"`
	}
	if err := json.Unmarshal(out.Bytes(), &response); err != nil {
		return 0, fmt.Errorf("failed to unmarshal response from python script: %w", err)
	}
	if response.Prediction == nil {
		return 0, ErrEmptyPrediction
	}
	return *response.Prediction, nil
}
