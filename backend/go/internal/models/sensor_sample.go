package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

// IMU 读数字段名, 与数据库中的键一致。
const (
	FieldAccX  = "acc_x"
	FieldAccY  = "acc_y"
	FieldAccZ  = "acc_z"
	FieldGyroX = "gyro_x"
	FieldGyroY = "gyro_y"
	FieldGyroZ = "gyro_z"
)

// SampleFields 是单个 IMU 读数在特征向量中的固定顺序。
var SampleFields = [6]string{FieldAccX, FieldAccY, FieldAccZ, FieldGyroX, FieldGyroY, FieldGyroZ}

// ErrMalformedField 表示某个读数字段存在但不是数值。
var ErrMalformedField = errors.New("sensor field is not numeric")

// SensorSample 是一个 IMU (mpu1 / mpu2) 的原始读数, 保留数据库解码后的原样。
// 缺失的字段按 0 处理, 这不是错误。
type SensorSample map[string]interface{}

// IsEmpty 在读数不存在或为空对象时返回 true。
func (s SensorSample) IsEmpty() bool {
	return len(s) == 0
}

// Value 返回指定字段的数值, 字段缺失时返回 0。
func (s SensorSample) Value(field string) (float64, error) {
	raw, ok := s[field]
	if !ok || raw == nil {
		return 0, nil
	}
	switch v := raw.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, fmt.Errorf("%s=%q: %w", field, v.String(), ErrMalformedField)
		}
		return f, nil
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, fmt.Errorf("%s=%v (%T): %w", field, raw, raw, ErrMalformedField)
	}
}

// Features 按 acc_x, acc_y, acc_z, gyro_x, gyro_y, gyro_z 的顺序返回 6 个数值。
func (s SensorSample) Features() ([6]float64, error) {
	var out [6]float64
	for i, field := range SampleFields {
		v, err := s.Value(field)
		if err != nil {
			return out, err
		}
		out[i] = v
	}
	return out, nil
}

// FeatureVector 是输入模型的 12 维特征: mpu1 的 6 个读数在前, mpu2 在后。
type FeatureVector [12]float64

// Slice 返回特征的切片副本, 方便序列化为单行批次。
func (v FeatureVector) Slice() []float64 {
	out := make([]float64, len(v))
	copy(out, v[:])
	return out
}

// BuildFeatureVector 根据两个 IMU 读数构造固定顺序的特征向量。
func BuildFeatureVector(mpu1, mpu2 SensorSample) (FeatureVector, error) {
	var vec FeatureVector
	first, err := mpu1.Features()
	if err != nil {
		return vec, fmt.Errorf("mpu1: %w", err)
	}
	second, err := mpu2.Features()
	if err != nil {
		return vec, fmt.Errorf("mpu2: %w", err)
	}
	copy(vec[:6], first[:])
	copy(vec[6:], second[:])
	return vec, nil
}

