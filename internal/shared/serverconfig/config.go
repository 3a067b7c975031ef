package serverconfig

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"Skirmish/internal/shared/config"
)

const envPrefix = "SKIRMISH_"

var Conf = Default()

// Load 读取配置文件，再用 SKIRMISH_ 前缀的环境变量覆盖。
// cfgName 为空时向上查找 configs/conf.yml。
func Load(cfgName string) error {
	path, err := config.Resolve(cfgName)
	if err != nil {
		return err
	}
	cfg, err := LoadFile(path)
	if err != nil {
		return err
	}
	Conf = cfg
	return nil
}

// LoadFile 不修改全局 Conf，便于测试和多实例场景。
func LoadFile(path string) (Config, error) {
	cfg := Default()
	if _, err := config.Load(path, &cfg); err != nil {
		return Config{}, err
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Watch 监听配置文件，变更且校验通过后回调 onChange；非法的新配置交给 onError。
func Watch(path string, onChange func(Config), onError func(error)) error {
	_, err := config.Load(path, nil, config.WithWatch(func(v *viper.Viper, _ fsnotify.Event) {
		cfg := Default()
		if err := v.Unmarshal(&cfg); err != nil {
			onError(err)
			return
		}
		if err := applyEnv(&cfg); err != nil {
			onError(err)
			return
		}
		if err := cfg.Validate(); err != nil {
			onError(err)
			return
		}
		onChange(cfg)
	}))
	return err
}

func applyEnv(cfg *Config) error {
	// 未设置的环境变量不会覆盖文件里的值
	return env.ParseWithOptions(cfg, env.Options{Prefix: envPrefix})
}

func (c Config) Validate() error {
	r := c.Rules
	switch {
	case r.BoardWidth <= 0 || r.BoardHeight <= 0:
		return fmt.Errorf("rules: board size must be positive, got %dx%d", r.BoardWidth, r.BoardHeight)
	case r.TerritoryRows <= 0 || r.TerritoryRows*2 > r.BoardHeight:
		return fmt.Errorf("rules: territory_rows %d does not fit board height %d", r.TerritoryRows, r.BoardHeight)
	case r.VictoryPoints <= 0:
		return fmt.Errorf("rules: victory_points must be positive")
	case r.MaxLevel <= 0 || r.StartingLevel <= 0 || r.StartingLevel > r.MaxLevel:
		return fmt.Errorf("rules: starting_level %d outside [1,%d]", r.StartingLevel, r.MaxLevel)
	case r.StackIterLimit <= 0:
		return fmt.Errorf("rules: stack_iter_limit must be positive")
	}
	return nil
}
