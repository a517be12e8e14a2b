// Package config 提供统一的配置管理
//
// 主 Config 结构体嵌入所有子配置，每个子配置在独立文件中定义，
// 各组件通过 ConfigFromUnified 派生自己的配置。
//
// 使用示例：
//
//	cfg := config.NewConfig()
//	cfg.Backend.EnableTest = true
//
//	cfg, err := config.FromJSON(data)
//	cfg, err := config.LoadFile("actornet.json")
package config

// Config 是 go-actornet 的完整配置结构
//
//   - Middleman: 中间人（本地节点、远程 actor 解析）
//   - Backend: 传输后端
//   - Endpoint: 托管通道（帧、写队列）
//   - BASP: 协议层
//   - Metrics: 指标
//   - Log: 日志
type Config struct {
	// Middleman 中间人配置
	Middleman MiddlemanConfig `json:"middleman"`

	// Backend 后端配置
	Backend BackendConfig `json:"backend"`

	// Endpoint 托管通道配置
	Endpoint EndpointConfig `json:"endpoint"`

	// BASP 协议配置
	BASP BASPConfig `json:"basp"`

	// Metrics 指标配置
	Metrics MetricsConfig `json:"metrics"`

	// Log 日志配置
	Log LogConfig `json:"log"`
}

// NewConfig 创建默认配置
func NewConfig() *Config {
	return &Config{
		Middleman: DefaultMiddlemanConfig(),
		Backend:   DefaultBackendConfig(),
		Endpoint:  DefaultEndpointConfig(),
		BASP:      DefaultBASPConfig(),
		Metrics:   DefaultMetricsConfig(),
		Log:       DefaultLogConfig(),
	}
}

// Validate 验证配置的有效性
func (c *Config) Validate() error {
	if err := c.Middleman.Validate(); err != nil {
		return err
	}
	if err := c.Backend.Validate(); err != nil {
		return err
	}
	if err := c.Endpoint.Validate(); err != nil {
		return err
	}
	if err := c.BASP.Validate(); err != nil {
		return err
	}
	if err := c.Metrics.Validate(); err != nil {
		return err
	}
	return c.Log.Validate()
}
