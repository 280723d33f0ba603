package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// 默认值与最初的单次预测脚本保持一致。
const (
	DefaultDatabaseURL     = "https://kneeheal-320a8-default-rtdb.firebaseio.com/"
	DefaultCredentialsFile = "serviceAccountKey.json"
	DefaultUserID          = "user_001"
	DefaultModelPath       = "mpu_angle_model.pkl"
	DefaultModelProvider   = "python"
	DefaultPythonScript    = "backend/python/predict_angle.py"
	DefaultInterpreter     = "python3"
	DefaultServerAddress   = ":8080"
	DefaultHistoryLimit    = 30
)

// FirebaseConfig 定义了 Firebase 实时数据库的连接配置。
type FirebaseConfig struct {
	DatabaseURL     string `yaml:"databaseURL"`     // 数据库 URL
	CredentialsFile string `yaml:"credentialsFile"` // 服务账号证书文件路径
	UserID          string `yaml:"userID"`          // 传感器数据所属用户
	DataPath        string `yaml:"dataPath"`        // 读取路径, 默认为 "<userID>/data"
}

// ModelSourceConfig 定义了模型文件在对象存储中的位置。
// 启用后, 加载模型前会先把对象下载到 ModelConfig.Path。
type ModelSourceConfig struct {
	Enabled bool   `yaml:"enabled"`
	Bucket  string `yaml:"bucket"`
	Object  string `yaml:"object"`
}

// ModelConfig 定义了回归模型的加载方式。
type ModelConfig struct {
	Provider     string            `yaml:"provider"`     // "python", "linear" 或 "http"
	Path         string            `yaml:"path"`         // 本地模型文件路径
	PythonScript string            `yaml:"pythonScript"` // python 推理脚本路径
	Interpreter  string            `yaml:"interpreter"`  // python 解释器
	Endpoint     string            `yaml:"endpoint"`     // 远程推理服务地址 (仅 http)
	Source       ModelSourceConfig `yaml:"source"`       // 模型文件来源
}

// ServerConfig 定义了 HTTP 服务的监听配置。
type ServerConfig struct {
	Address      string `yaml:"address"`
	HistoryLimit int    `yaml:"historyLimit"` // 历史记录默认条数
}

// RedisConfig 定义了 Redis 数据库的连接配置。
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Address  string `yaml:"address"`  // Redis 服务器地址 (例如: "localhost:6379")
	Password string `yaml:"password"` // Redis 密码
	DB       int    `yaml:"db"`       // Redis 数据库编号
	TTL      string `yaml:"ttl"`      // 最新预测缓存的过期时间, 为空表示不过期
}

// MinIOConfig 定义了 MinIO 对象存储的连接配置。
type MinIOConfig struct {
	Endpoint  string `yaml:"endpoint"`  // MinIO 服务端点
	AccessKey string `yaml:"accessKey"` // 访问密钥
	SecretKey string `yaml:"secretKey"` // Secret 密钥
	Secure    bool   `yaml:"secure"`    // 是否使用HTTPS
}

// MongoConfig 定义了 MongoDB 数据库的连接配置。
type MongoConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Address    string `yaml:"address"`    // MongoDB 服务器地址
	Username   string `yaml:"username"`   // 用户名
	Password   string `yaml:"password"`   // 密码
	Database   string `yaml:"database"`   // 数据库名称
	Collection string `yaml:"collection"` // 预测归档集合
}

// KafkaConfig 定义了 Kafka 消息队列的连接配置。
type KafkaConfig struct {
	Enabled bool     `yaml:"enabled"`
	Brokers []string `yaml:"brokers"` // Kafka Broker 地址列表
	Topic   string   `yaml:"topic"`   // 预测事件主题
}

// DatabaseConfigs 包含所有外部存储的配置。
type DatabaseConfigs struct {
	Redis   RedisConfig `yaml:"redis"`
	MongoDB MongoConfig `yaml:"mongodb"`
	MinIO   MinIOConfig `yaml:"minio"`
	Kafka   KafkaConfig `yaml:"kafka"`
}

// AppInfo 对应 'app' 部分，包含应用程序的基本信息。
type AppInfo struct {
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	Environment string `yaml:"environment"` // 例如: "development", "production"
}

// LoggerConfig 定义了日志记录器的配置。
type LoggerConfig struct {
	Level string `yaml:"level"` // 日志级别 (例如: "info", "debug", "warn", "error")
}

// TokenBucketConfig 定义了令牌桶算法的配置。
type TokenBucketConfig struct {
	Rate     float64 `yaml:"rate"` // 每秒速率
	Capacity int     `yaml:"capacity"`
}

// RateLimiterConfig 定义了限流器的配置。
type RateLimiterConfig struct {
	Enabled     bool              `yaml:"enabled"`
	TokenBucket TokenBucketConfig `yaml:"tokenBucket"`
}

// CircuitBreakerConfig 定义了熔断器的配置。
type CircuitBreakerConfig struct {
	Enabled          bool   `yaml:"enabled"`
	FailureThreshold uint32 `yaml:"failureThreshold"`
	SuccessThreshold uint32 `yaml:"successThreshold"`
	Timeout          string `yaml:"timeout"` // 例如: "30s"
}

// MiddlewareConfig 包含所有中间件的配置。
type MiddlewareConfig struct {
	RateLimiter    RateLimiterConfig    `yaml:"rateLimiter"`
	CircuitBreaker CircuitBreakerConfig `yaml:"circuitBreaker"`
}

// AppConfig 是整个 YAML 文件的根结构。
type AppConfig struct {
	App        AppInfo          `yaml:"app"`
	Logger     LoggerConfig     `yaml:"logger"`
	Firebase   FirebaseConfig   `yaml:"firebase"`
	Model      ModelConfig      `yaml:"model"`
	Server     ServerConfig     `yaml:"server"`
	Databases  DatabaseConfigs  `yaml:"databases"`
	Middleware MiddlewareConfig `yaml:"middleware"`
}

// LoadConfig 函数从指定路径加载并解析 YAML 配置文件，并补齐默认值。
//
// 参数:
//
//	path: YAML 配置文件的路径。
//
// 返回值:
//
//	*AppConfig: 解析后的应用程序配置结构体。
//	error: 如果文件读取或解析失败，则返回错误。
func LoadConfig(path string) (*AppConfig, error) {
	yamlFile, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("无法读取 YAML 文件 '%s': %w", path, err)
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(yamlFile, &cfg); err != nil {
		return nil, fmt.Errorf("解析 YAML 文件失败: %w", err)
	}
	cfg.ApplyDefaults()
	return &cfg, nil
}

// LoadOrDefault 在配置文件不存在时返回默认配置，其他错误照常返回。
func LoadOrDefault(path string) (*AppConfig, error) {
	cfg, err := LoadConfig(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Default 返回只包含默认值的配置。
func Default() *AppConfig {
	cfg := &AppConfig{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults 为未设置的字段填充默认值。
func (c *AppConfig) ApplyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "kneeheal"
	}
	if c.Logger.Level == "" {
		c.Logger.Level = "info"
	}
	if c.Firebase.DatabaseURL == "" {
		c.Firebase.DatabaseURL = DefaultDatabaseURL
	}
	if c.Firebase.CredentialsFile == "" {
		c.Firebase.CredentialsFile = DefaultCredentialsFile
	}
	if c.Firebase.UserID == "" {
		c.Firebase.UserID = DefaultUserID
	}
	if c.Firebase.DataPath == "" {
		c.Firebase.DataPath = c.Firebase.UserID + "/data"
	}
	if c.Model.Provider == "" {
		c.Model.Provider = DefaultModelProvider
	}
	if c.Model.Path == "" {
		c.Model.Path = DefaultModelPath
	}
	if c.Model.PythonScript == "" {
		c.Model.PythonScript = DefaultPythonScript
	}
	if c.Model.Interpreter == "" {
		c.Model.Interpreter = DefaultInterpreter
	}
	if c.Server.Address == "" {
		c.Server.Address = DefaultServerAddress
	}
	if c.Server.HistoryLimit <= 0 {
		c.Server.HistoryLimit = DefaultHistoryLimit
	}
	if c.Databases.MongoDB.Collection == "" {
		c.Databases.MongoDB.Collection = "predictions"
	}
	if c.Databases.Kafka.Topic == "" {
		c.Databases.Kafka.Topic = "kneeheal.predictions"
	}
	if c.Middleware.CircuitBreaker.Timeout == "" {
		c.Middleware.CircuitBreaker.Timeout = "30s"
	}
}
