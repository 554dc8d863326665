package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config 全局配置结构
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	MySQL   MySQLConfig   `mapstructure:"mysql"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Kafka   KafkaConfig   `mapstructure:"kafka"`
	Auction AuctionConfig `mapstructure:"auction"`
}

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

type MySQLConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	Database     string `mapstructure:"database"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type KafkaConfig struct {
	Brokers []string         `mapstructure:"brokers"`
	Topic   KafkaTopicConfig `mapstructure:"topic"`
}

type KafkaTopicConfig struct {
	BidAccepted    string `mapstructure:"bid_accepted"`
	AuctionEnded   string `mapstructure:"auction_ended"`
	AuctionFailed  string `mapstructure:"auction_failed"`
	PaymentTimeout string `mapstructure:"payment_timeout"`
}

// AuctionConfig 拍卖业务参数
// 防狙击窗口（3分钟）和延长上限（5次）沿用运营既定值，勿随意调整
type AuctionConfig struct {
	DepositRatePercent     int   `mapstructure:"deposit_rate_percent"`     // 保证金比例（按起拍价的百分比）
	FeeRatePercent         int   `mapstructure:"fee_rate_percent"`         // 平台结算手续费比例
	ExtensionWindowMinutes int   `mapstructure:"extension_window_minutes"` // 防狙击判定窗口
	ExtensionMinutes       int   `mapstructure:"extension_minutes"`        // 每次延长时长
	MaxExtensionCount      int   `mapstructure:"max_extension_count"`      // 最多延长次数
	PaymentTimeoutDays     int   `mapstructure:"payment_timeout_days"`     // 尾款支付期限（天）
	SettleSweepSeconds     int   `mapstructure:"settle_sweep_seconds"`     // 结算兜底扫描间隔
	SettleBatchSize        int   `mapstructure:"settle_batch_size"`        // 单次结算扫描上限
	TimeoutSweepHours      int   `mapstructure:"timeout_sweep_hours"`      // 尾款超时扫描间隔（小时）
	DistributeBatchSize    int   `mapstructure:"distribute_batch_size"`    // 单次结算打款上限
	SystemWalletMemberID   int64 `mapstructure:"system_wallet_member_id"`  // 平台手续费钱包所属会员
	OutboxMaxRetryCount    int   `mapstructure:"outbox_max_retry_count"`
}

func (c *AuctionConfig) ExtensionWindow() time.Duration {
	return time.Duration(c.ExtensionWindowMinutes) * time.Minute
}

func (c *AuctionConfig) ExtensionIncrement() time.Duration {
	return time.Duration(c.ExtensionMinutes) * time.Minute
}

func (c *AuctionConfig) PaymentDeadline() time.Duration {
	return time.Duration(c.PaymentTimeoutDays) * 24 * time.Hour
}

var GlobalConfig *Config

// LoadConfig 加载配置文件
func LoadConfig(configPath string) *Config {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	viper.SetDefault("auction.deposit_rate_percent", 10)
	viper.SetDefault("auction.fee_rate_percent", 10)
	viper.SetDefault("auction.extension_window_minutes", 3)
	viper.SetDefault("auction.extension_minutes", 3)
	viper.SetDefault("auction.max_extension_count", 5)
	viper.SetDefault("auction.payment_timeout_days", 3)
	viper.SetDefault("auction.settle_sweep_seconds", 60)
	viper.SetDefault("auction.settle_batch_size", 100)
	viper.SetDefault("auction.timeout_sweep_hours", 24)
	viper.SetDefault("auction.distribute_batch_size", 100)
	viper.SetDefault("auction.outbox_max_retry_count", 5)

	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("读取配置文件失败: %v", err)
	}

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		log.Fatalf("解析配置文件失败: %v", err)
	}

	GlobalConfig = config
	return config
}
