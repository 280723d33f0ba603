package advice

// 膝关节屈曲角度阈值 (度)。
const (
	MaxFlexion = 100.0
	MinFlexion = 30.0
)

const (
	TooHigh      = "Warning: Knee flexion angle is too high."
	TooLow       = "Encourage more movement to reach the target angle."
	InTargetBand = "Great range of motion! Keep it up."
)

// Suggest 根据预测角度返回恰好一条建议。
// 规则按顺序匹配: 大于 100 为过高, 小于 30 为不足, 其余 (含 30 和 100) 为正常。
func Suggest(angle float64) []string {
	switch {
	case angle > MaxFlexion:
		return []string{TooHigh}
	case angle < MinFlexion:
		return []string{TooLow}
	default:
		return []string{InTargetBand}
	}
}
