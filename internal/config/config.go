package config

import (
	"github.com/KessokuMAS/PickTogether/internal/logger"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Discovery DiscoveryConfig `mapstructure:"discovery"`
	Upload    UploadConfig    `mapstructure:"upload"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// DiscoveryConfig 附近检索配置
type DiscoveryConfig struct {
	DefaultRadius float64 `mapstructure:"default_radius"` // 默认检索半径（米）
	QueryTimeout  int     `mapstructure:"query_timeout"`  // 单次查询超时（秒）
}

// UploadConfig 图片上传配置
type UploadConfig struct {
	BusinessRequestDir string `mapstructure:"business_request_dir"` // 店铺申请图片目录
	RestaurantDir      string `mapstructure:"restaurant_dir"`       // 店铺图片目录
}

type SchedulerConfig struct {
	Interval int `mapstructure:"interval"` // 秒
	Workers  int `mapstructure:"workers"`  // 结算协程池大小
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // 日志级别: debug, info, warn, error, fatal
	Output string `mapstructure:"output"` // 输出目标: stdout, file
	File   string `mapstructure:"file"`   // 日志文件路径（当output为file时使用）
}

func Load() *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/picktogether")

	// 设置默认值
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "")
	viper.SetDefault("database.dbname", "picktogether")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("discovery.default_radius", 3000)
	viper.SetDefault("discovery.query_timeout", 5)
	viper.SetDefault("upload.business_request_dir", "uploads/business-requests")
	viper.SetDefault("upload.restaurant_dir", "uploads/restaurants")
	viper.SetDefault("scheduler.interval", 60)
	viper.SetDefault("scheduler.workers", 8)
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.output", "stdout")
	viper.SetDefault("log.file", "logs/app.log")

	// 自动读取环境变量
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logger.Warn("Warning: Could not read config file: %v", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		logger.Fatal("Unable to decode config into struct: %v", err)
	}

	return &config
}
