package serverconfig

type Config struct {
	Log   LogConfig   `yaml:"log" mapstructure:"log" envPrefix:"LOG_"`
	Rules RulesConfig `yaml:"rules" mapstructure:"rules" envPrefix:"RULES_"`
	Match MatchConfig `yaml:"match" mapstructure:"match" envPrefix:"MATCH_"`
	Cards CardsConfig `yaml:"cards" mapstructure:"cards" envPrefix:"CARDS_"`
}

type LogConfig struct {
	FileDir    string `yaml:"file_dir" mapstructure:"file_dir" env:"FILE_DIR"`
	MaxSize    int    `yaml:"max_size" mapstructure:"max_size" env:"MAX_SIZE"` // MB
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups" env:"MAX_BACKUPS"`
	MaxAge     int    `yaml:"max_age" mapstructure:"max_age" env:"MAX_AGE"` // days
	Compress   bool   `yaml:"compress" mapstructure:"compress" env:"COMPRESS"`
	Level      string `yaml:"level" mapstructure:"level" env:"LEVEL"` // debug/info/warn/error...
	Dev        bool   `yaml:"dev" mapstructure:"dev" env:"DEV"`
}

// RulesConfig 对局规则常量。成长档位倍率是固定表，不在这里配置。
type RulesConfig struct {
	BoardWidth     int   `yaml:"board_width" mapstructure:"board_width" env:"BOARD_WIDTH"`
	BoardHeight    int   `yaml:"board_height" mapstructure:"board_height" env:"BOARD_HEIGHT"`
	TerritoryRows  int   `yaml:"territory_rows" mapstructure:"territory_rows" env:"TERRITORY_ROWS"`
	VictoryPoints  int   `yaml:"victory_points" mapstructure:"victory_points" env:"VICTORY_POINTS"`
	HandLimit      int   `yaml:"hand_limit" mapstructure:"hand_limit" env:"HAND_LIMIT"`
	MaxLevel       int   `yaml:"max_level" mapstructure:"max_level" env:"MAX_LEVEL"`
	StartingLevel  int   `yaml:"starting_level" mapstructure:"starting_level" env:"STARTING_LEVEL"`
	StackIterLimit int   `yaml:"stack_iter_limit" mapstructure:"stack_iter_limit" env:"STACK_ITER_LIMIT"`
	EventLogSize   int   `yaml:"event_log_size" mapstructure:"event_log_size" env:"EVENT_LOG_SIZE"`
	Seed           int64 `yaml:"seed" mapstructure:"seed" env:"SEED"` // 0 表示随机种子
}

type MatchConfig struct {
	AskTimeoutMS int   `yaml:"ask_timeout_ms" mapstructure:"ask_timeout_ms" env:"ASK_TIMEOUT_MS"`
	NodeID       int64 `yaml:"node_id" mapstructure:"node_id" env:"NODE_ID"`
}

type CardsConfig struct {
	Path string `yaml:"path" mapstructure:"path" env:"PATH"`
}

// Default 返回未加载任何文件时的规则默认值。
func Default() Config {
	return Config{
		Log: LogConfig{Level: "info", MaxSize: 100, MaxBackups: 3, MaxAge: 7},
		Rules: RulesConfig{
			BoardWidth:     12,
			BoardHeight:    14,
			TerritoryRows:  3,
			VictoryPoints:  3,
			HandLimit:      6,
			MaxLevel:       20,
			StartingLevel:  5,
			StackIterLimit: 256,
			EventLogSize:   512,
		},
		Match: MatchConfig{AskTimeoutMS: 3000, NodeID: 1},
	}
}
