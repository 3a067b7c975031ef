package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	matchactor "Skirmish/internal/match/actor"
	"Skirmish/internal/rules/app"
	"Skirmish/internal/rules/domain"
	"Skirmish/internal/shared/config"
	"Skirmish/internal/shared/gameconfig/cards"
	"Skirmish/internal/shared/logs"
	"Skirmish/internal/shared/serverconfig"
	"Skirmish/internal/shared/utils"
)

func main() {
	cfgPath, err := config.Resolve(os.Getenv("SKIRMISH_CONFIG"))
	if err != nil {
		panic(err)
	}
	conf, err := serverconfig.LoadFile(cfgPath)
	if err != nil {
		panic(err)
	}
	serverconfig.Conf = conf
	if err := logs.Init("skirmish", conf.Log); err != nil {
		panic(err)
	}
	defer func() {
		_ = logs.Sync()
	}()
	logs.Info("conf", zap.Any("conf", conf))

	// 热更新只调整日志级别，规则参数对已开局的对局不生效
	err = serverconfig.Watch(cfgPath, func(c serverconfig.Config) {
		if err := logs.SetLevel(c.Log.Level); err != nil {
			logs.Warn("log level not changed", zap.String("level", c.Log.Level), zap.Error(err))
			return
		}
		logs.Info("log level reloaded", zap.String("level", c.Log.Level))
	}, func(err error) {
		logs.Warn("config reload rejected", zap.Error(err))
	})
	if err != nil {
		logs.Warn("config watch disabled", zap.Error(err))
	}

	catalog, err := loadCards(cfgPath, conf.Cards.Path)
	if err != nil {
		logs.Fatal("load cards failed", zap.Error(err))
	}
	logs.Info("cards loaded", zap.Int("count", len(catalog)))

	ids, err := utils.NewSnowflake(conf.Match.NodeID)
	if err != nil {
		logs.Fatal("snowflake init failed", zap.Error(err))
	}
	rt := matchactor.NewRuntime(catalog, app.Options{
		Rules: conf.Rules,
		IDs:   ids,
		Log:   logs.Logger(),
	}, time.Duration(conf.Match.AskTimeoutMS)*time.Millisecond)
	defer rt.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logs.Info("skirmish console started")
	if err := serve(ctx, rt, os.Stdin, os.Stdout); err != nil {
		logs.Error("console exited", zap.Error(err))
		return
	}
	logs.Info("收到退出信号或输入结束，准备退出")
}

// loadCards 相对路径按仓库根目录解析，即 configs/ 的上一级；未配置时用内置入门卡表。
func loadCards(cfgPath, p string) (domain.MemoryCatalog, error) {
	if p == "" {
		return cards.LoadStarter()
	}
	if !filepath.IsAbs(p) {
		p = filepath.Join(filepath.Dir(filepath.Dir(cfgPath)), p)
	}
	return cards.Load(p)
}
