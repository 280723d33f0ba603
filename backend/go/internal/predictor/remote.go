package predictor

import (
	"KneeHeal/backend/go/internal/models"
	apphttp "KneeHeal/backend/go/pkg/http"
	"context"
	"fmt"
)

// RemotePredictor 调用远程推理服务。请求体是单行批次, 取返回的第一个结果。
type RemotePredictor struct {
	client   *apphttp.Client
	endpoint string
}

type predictRequest struct {
	Instances [][]float64 `json:"instances"`
}

type predictResponse struct {
	Predictions []float64 `json:"predictions"`
}

// NewRemotePredictor 创建一个远程推理客户端。
func NewRemotePredictor(client *apphttp.Client, endpoint string) (*RemotePredictor, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("model endpoint is not configured")
	}
	return &RemotePredictor{client: client, endpoint: endpoint}, nil
}

func (p *RemotePredictor) Predict(ctx context.Context, features models.FeatureVector) (float64, error) {
	req := predictRequest{Instances: [][]float64{features.Slice()}}
	var resp predictResponse
	if err := p.client.PostJSON(ctx, p.endpoint, req, &resp); err != nil {
		return 0, fmt.Errorf("remote prediction failed: %w", err)
	}
	if len(resp.Predictions) == 0 {
		return 0, ErrEmptyPrediction
	}
	return resp.Predictions[0], nil
}
