package models

// ErrorInfo 存储了关于错误的结构化信息, 由 logger.WithError 输出。
type ErrorInfo struct {
	Message    string `json:"message"`
	Type       string `json:"type,omitempty"`        // 错误的类型，例如 "firebase_error", "model_error"
	StatusCode int    `json:"status_code,omitempty"` // 相关的HTTP状态码
}

// RequestInfo 存储了关于 HTTP 请求的上下文信息。
type RequestInfo struct {
	Method     string `json:"method"`
	Path       string `json:"path"`
	RemoteAddr string `json:"remote_addr"`
	UserAgent  string `json:"user_agent"`
	Status     int    `json:"status"`
	LatencyMs  int64  `json:"latency_ms"`
}
