package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Cfg 是一个全局变量，用于存储所有应用程序的配置
var Cfg *Config

// Config 结构体定义了应用程序的所有配置项
// 它与 config.yaml 文件的结构完全对应
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Advisor  AdvisorConfig  `mapstructure:"advisor"`
	Snapshot SnapshotConfig `mapstructure:"snapshot"`
}

// ServerConfig 定义了服务器相关的配置
type ServerConfig struct {
	Mode    string     `mapstructure:"mode"`
	Address string     `mapstructure:"address"`
	Cors    CorsConfig `mapstructure:"cors"`
}

// CorsConfig 定义了CORS相关的配置
type CorsConfig struct {
	AllowedOrigins []string `mapstructure:"allowedOrigins"`
}

// DatabaseConfig 定义了数据库和缓存相关的配置
type DatabaseConfig struct {
	// Driver 可选 "sqlite" 或 "postgres"
	Driver string      `mapstructure:"driver"`
	Dsn    string      `mapstructure:"dsn"`
	Redis  RedisConfig `mapstructure:"redis"`
}

// RedisConfig 定义了Redis的配置
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AuthConfig 定义了JWT认证相关的配置
type AuthConfig struct {
	// JwtSecret 建议通过环境变量 AUTH_JWTSECRET 注入
	JwtSecret string `mapstructure:"jwtSecret"`
	// TokenTTLHours 是签发的JWT的有效期（小时）
	TokenTTLHours int `mapstructure:"tokenTTLHours"`
}

// AdvisorConfig 定义了AI顾问服务的配置
type AdvisorConfig struct {
	// APIKey 建议通过环境变量 ADVISOR_APIKEY 注入
	APIKey  string `mapstructure:"apiKey"`
	BaseURL string `mapstructure:"baseUrl"`
	Model   string `mapstructure:"model"`
}

// SnapshotConfig 定义了计数快照后台任务的配置
type SnapshotConfig struct {
	IntervalSeconds int `mapstructure:"intervalSeconds"`
}

// LoadConfig 函数负责查找、加载和解析配置文件
// 它会在指定的路径中查找名为 config.yaml 的文件
func LoadConfig() (*Config, error) {
	v := viper.New()

	// 1. 设置配置文件名和类型
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// 2. 添加配置文件搜索路径，按顺序查找
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	// 3. 允许通过环境变量覆盖配置，例如 AUTH_JWTSECRET、ADVISOR_APIKEY
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 4. 默认值
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.address", ":8080")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "asesorvial.db")
	v.SetDefault("database.redis.address", "localhost:6379")
	v.SetDefault("server.cors.allowedOrigins", []string{"http://localhost:3000"})
	v.SetDefault("auth.tokenTTLHours", 72)
	v.SetDefault("advisor.model", "gpt-4o-mini")
	v.SetDefault("snapshot.intervalSeconds", 300)

	// 5. 读取配置文件
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	// 6. 将配置反序列化到结构体中
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// 7. 将加载的配置赋值给全局变量
	Cfg = &cfg

	return Cfg, nil
}
