package config

// Config 是 racetrack 管理服务的全部配置，admin 与 cli 共用。
type Config struct {
	MongoDB    MongoDBConfig    `yaml:"mongodb" mapstructure:"mongodb"`
	HTTPServer HTTPServerConfig `yaml:"httpserver" mapstructure:"httpserver"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
	Batch      BatchConfig      `yaml:"batch" mapstructure:"batch"`
	Metrics    MetricsConfig    `yaml:"metrics" mapstructure:"metrics"`
}

type MongoDBConfig struct {
	// Driver 为 mongo（默认）或 memory；memory 只用于本地演示，进程退出即丢失
	Driver   string `yaml:"driver" mapstructure:"driver"`
	URI      string `yaml:"uri" mapstructure:"uri"`
	Database string `yaml:"database" mapstructure:"database"`
	// ConnectTimeoutS 建连 + ping 的最长等待（秒）
	ConnectTimeoutS int `yaml:"connect_timeout_s" mapstructure:"connect_timeout_s"`
	// ServerSelectionTimeoutMS 驱动选择服务器的超时，只在建连时生效一次
	ServerSelectionTimeoutMS int `yaml:"server_selection_timeout_ms" mapstructure:"server_selection_timeout_ms"`
}

type HTTPServerConfig struct {
	Host string `yaml:"host" mapstructure:"host"`
	Port int    `yaml:"port" mapstructure:"port"`
}

type LogConfig struct {
	FileDir    string `yaml:"file_dir" mapstructure:"file_dir"`
	MaxSize    int    `yaml:"max_size" mapstructure:"max_size"` // MB
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAge     int    `yaml:"max_age" mapstructure:"max_age"` // days
	Compress   bool   `yaml:"compress" mapstructure:"compress"`
	Level      string `yaml:"level" mapstructure:"level"` // debug/info/warn/error...
	Dev        bool   `yaml:"dev" mapstructure:"dev"`
}

type BatchConfig struct {
	// Concurrency 批量操作同时处理的 uid 数，1 表示严格串行
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Path    string `yaml:"path" mapstructure:"path"`
}

func setDefaults(set func(key string, value any)) {
	set("mongodb.driver", "mongo")
	set("mongodb.uri", "")
	set("mongodb.database", "desertsafari_api_v3")
	set("mongodb.connect_timeout_s", 5)
	set("mongodb.server_selection_timeout_ms", 5000)
	set("httpserver.host", "0.0.0.0")
	set("httpserver.port", 5001)
	set("log.file_dir", "")
	set("log.max_size", 100)
	set("log.max_backups", 5)
	set("log.max_age", 7)
	set("log.compress", false)
	set("log.level", "info")
	set("log.dev", false)
	set("batch.concurrency", 4)
	set("metrics.enabled", true)
	set("metrics.path", "/metrics")
}
