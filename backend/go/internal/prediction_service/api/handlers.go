package api

import (
	"KneeHeal/backend/go/internal/models"
	"KneeHeal/backend/go/internal/prediction_service/service"
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Predictions 是 Handler 依赖的服务能力。
type Predictions interface {
	RunOnce(ctx context.Context) (*service.Outcome, error)
	History(ctx context.Context, limit int) ([]models.KeyedRecord, error)
}

// Handler 封装了所有 API endpoint 的处理函数。
type Handler struct {
	service      Predictions
	historyLimit int
}

// NewHandler 创建一个新的 Handler 实例。
func NewHandler(s Predictions, historyLimit int) *Handler {
	return &Handler{service: s, historyLimit: historyLimit}
}

// RunResponse 是 POST /predictions/run 的响应体。
type RunResponse struct {
	Key            string   `json:"key"`
	Skipped        bool     `json:"skipped"`
	PredictedAngle *float64 `json:"predicted_angle,omitempty"`
	Suggestions    []string `json:"suggestions,omitempty"`
}

// HistoryResponse 是 GET /predictions/history 的响应体。
type HistoryResponse struct {
	Records []models.KeyedRecord `json:"records"`
}

// Health 返回服务存活状态。
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// RunPrediction 对最新记录执行一次预测并写回。
func (h *Handler) RunPrediction(c *gin.Context) {
	out, err := h.service.RunOnce(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	resp := RunResponse{Key: out.Key, Skipped: out.Skipped}
	if out.Annotation != nil {
		angle := out.Annotation.PredictedAngle
		resp.PredictedAngle = &angle
		resp.Suggestions = out.Annotation.Suggestions
	}
	c.JSON(http.StatusOK, resp)
}

// History 返回最近的已预测记录, 可通过 ?limit=N 指定条数。
func (h *Handler) History(c *gin.Context) {
	limit := h.historyLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit 必须是正整数"})
			return
		}
		limit = n
	}

	records, err := h.service.History(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, HistoryResponse{Records: records})
}
