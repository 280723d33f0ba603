package models

// Record 是 "<user>/data/<timestamp>" 下的一条传感器记录。
// 记录由上游采集程序写入, 本服务只追加 predicted_angle 和 suggestions。
type Record struct {
	MPU1           SensorSample `json:"mpu1,omitempty"`
	MPU2           SensorSample `json:"mpu2,omitempty"`
	PredictedAngle *float64     `json:"predicted_angle,omitempty"`
	Suggestions    []string     `json:"suggestions,omitempty"`
}

// KeyedRecord 把记录和它在数据库中的时间戳键放在一起。
type KeyedRecord struct {
	Key    string `json:"key"`
	Record Record `json:"record"`
}

// HasSamples 只有当 mpu1 和 mpu2 都存在且非空时才返回 true。
func (r *Record) HasSamples() bool {
	return !r.MPU1.IsEmpty() && !r.MPU2.IsEmpty()
}

// IsAnnotated 表示记录是否已经带有数值型的预测角度。
func (r *Record) IsAnnotated() bool {
	return r.PredictedAngle != nil
}

// Annotation 是写回记录的预测结果 (部分更新)。
type Annotation struct {
	PredictedAngle float64  `json:"predicted_angle"`
	Suggestions    []string `json:"suggestions"`
}

// Fields 返回用于部分合并更新的字段集合。
func (a Annotation) Fields() map[string]interface{} {
	return map[string]interface{}{
		"predicted_angle": a.PredictedAngle,
		"suggestions":     a.Suggestions,
	}
}
