package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// AppConfig 应用基础信息
type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
}

// NodeConfig 节点与 LoRa 链路参数。
// 对应 RYLR998 模块的 AT+ADDRESS / AT+NETWORKID / AT+BAND 配置项。
type NodeConfig struct {
	ID           string `mapstructure:"id"`           // 显示用节点标识，如 "N2"
	Address      uint16 `mapstructure:"address"`      // 本机地址（AT+ADDRESS）
	PeerAddress  uint16 `mapstructure:"peerAddress"`  // 发送方地址，ACK 回复目标
	NetworkID    uint8  `mapstructure:"networkId"`    // 网络号（AT+NETWORKID）
	FrequencyMHz uint32 `mapstructure:"frequencyMhz"` // 中心频率 MHz（AT+BAND）
	RxBufferSize int    `mapstructure:"rxBufferSize"` // 接收帧缓冲区容量（字节）
}

// SerialConfig 串口配置
type SerialConfig struct {
	Port        string        `mapstructure:"port"`
	BaudRate    int           `mapstructure:"baudRate"`
	ReadTimeout time.Duration `mapstructure:"readTimeout"`
}

// RadioConfig 射频模块初始化对话配置
type RadioConfig struct {
	Parameter   string        `mapstructure:"parameter"`   // AT+PARAMETER 的参数串 SF,BW,CR,PP
	SettleDelay time.Duration `mapstructure:"settleDelay"` // 每条 AT 命令后的等待时间
}

// DisplayConfig 终端显示配置
type DisplayConfig struct {
	Enable          bool          `mapstructure:"enable"`
	RefreshInterval time.Duration `mapstructure:"refreshInterval"`
}

// HTTPConfig HTTP 服务配置
type HTTPConfig struct {
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"readTimeout"`
	WriteTimeout time.Duration `mapstructure:"writeTimeout"`
}

// LumberjackConfig 日志滚动（lumberjack）配置
type LumberjackConfig struct {
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"maxSize"`
	MaxBackups int    `mapstructure:"maxBackups"`
	MaxAgeDays int    `mapstructure:"maxAge"`
	Compress   bool   `mapstructure:"compress"`
}

// LoggingConfig 日志级别与输出配置
type LoggingConfig struct {
	Level  string           `mapstructure:"level"`
	Format string           `mapstructure:"format"`
	File   LumberjackConfig `mapstructure:"file"`
}

// MetricsConfig Prometheus 指标暴露配置
type MetricsConfig struct {
	Enable bool   `mapstructure:"enable"`
	Path   string `mapstructure:"path"`
}

// Config 顶层配置结构
type Config struct {
	App     AppConfig     `mapstructure:"app"`
	Node    NodeConfig    `mapstructure:"node"`
	Serial  SerialConfig  `mapstructure:"serial"`
	Radio   RadioConfig   `mapstructure:"radio"`
	Display DisplayConfig `mapstructure:"display"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// Load 从 YAML/TOML/JSON 文件与环境变量加载配置。
// 若 path 为空，则回退到 configs/example.yaml；缺失文件时依赖默认值与环境变量。
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.SetConfigName("example")
		v.SetConfigType("yaml")
	}

	// 默认值
	setDefaults(v)

	// 环境变量覆盖：前缀 NODE_，并将点号替换为下划线
	v.SetEnvPrefix("NODE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// 首次运行允许缺少配置文件，依赖默认值与环境变量
		var notFound viper.ConfigFileNotFoundError
		if fmt.Sprintf("%T", err) != fmt.Sprintf("%T", notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate 校验关键链路参数的取值范围
func (c *Config) Validate() error {
	if c.Node.RxBufferSize <= 0 {
		return fmt.Errorf("node.rxBufferSize must be positive, got %d", c.Node.RxBufferSize)
	}
	if c.Node.NetworkID > 16 && c.Node.NetworkID != 18 {
		// RYLR998 合法网络号为 3-15 与 18（默认）
		return fmt.Errorf("node.networkId out of range: %d", c.Node.NetworkID)
	}
	if c.Node.FrequencyMHz < 433 || c.Node.FrequencyMHz > 915 {
		return fmt.Errorf("node.frequencyMhz out of range 433-915: %d", c.Node.FrequencyMHz)
	}
	if c.Serial.BaudRate <= 0 {
		return fmt.Errorf("serial.baudRate must be positive, got %d", c.Serial.BaudRate)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "lora-node")
	v.SetDefault("app.env", "dev")

	v.SetDefault("node.id", "N2")
	v.SetDefault("node.address", 2)
	v.SetDefault("node.peerAddress", 1)
	v.SetDefault("node.networkId", 18)
	v.SetDefault("node.frequencyMhz", 915)
	// RYLR998 支持 240 字节载荷，255 为帧头与将来扩展留出裕量
	v.SetDefault("node.rxBufferSize", 255)

	v.SetDefault("serial.port", "/dev/ttyUSB0")
	v.SetDefault("serial.baudRate", 115200)
	v.SetDefault("serial.readTimeout", "100ms")

	v.SetDefault("radio.parameter", "7,9,1,7")
	v.SetDefault("radio.settleDelay", "100ms")

	v.SetDefault("display.enable", true)
	v.SetDefault("display.refreshInterval", "500ms")

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.readTimeout", "5s")
	v.SetDefault("http.writeTimeout", "10s")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.file.filename", "logs/lora-node.log")
	v.SetDefault("logging.file.maxSize", 100)
	v.SetDefault("logging.file.maxBackups", 7)
	v.SetDefault("logging.file.maxAge", 30)
	v.SetDefault("logging.file.compress", true)

	v.SetDefault("metrics.enable", true)
	v.SetDefault("metrics.path", "/metrics")
}
