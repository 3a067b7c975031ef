package config

import (
	"fmt"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Option 调整一次 Load 的行为。
type Option func(*loadOptions)

type loadOptions struct {
	onChange func(v *viper.Viper, e fsnotify.Event)
}

// WithWatch 开启热更新：文件变更时回调，由调用方自行决定如何重新 Unmarshal。
// 回调运行在 fsnotify 的 goroutine 上，调用方负责并发安全。
func WithWatch(onChange func(v *viper.Viper, e fsnotify.Event)) Option {
	return func(o *loadOptions) {
		o.onChange = onChange
	}
}

// Load 读取 configPath 指向的文件（yaml/json 由扩展名决定）并解码到 out。
func Load(configPath string, out any, opts ...Option) (*viper.Viper, error) {
	if !fileExist(configPath) {
		return nil, fmt.Errorf("config file not exist, configPath=%v", configPath)
	}
	var o loadOptions
	for _, opt := range opts {
		opt(&o)
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %q: %w", configPath, err)
	}
	if out != nil {
		if err := v.Unmarshal(out); err != nil {
			return nil, fmt.Errorf("unmarshal config %q: %w", configPath, err)
		}
	}
	if o.onChange != nil {
		v.OnConfigChange(func(e fsnotify.Event) {
			o.onChange(v, e)
		})
		v.WatchConfig()
	}
	return v, nil
}
