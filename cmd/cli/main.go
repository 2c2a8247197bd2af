// rxsched-cli 是 RxSched 排班引擎的命令行工具，供本地/批处理场景直接调用
// generate/adjust/validate，无需起 HTTP 服务。
package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/paiban/rxsched/cmd/cli/commands"
	"github.com/paiban/rxsched/internal/config"
	"github.com/paiban/rxsched/internal/database"
	"github.com/paiban/rxsched/internal/repository"
	"github.com/paiban/rxsched/pkg/logger"
)

// app 在包初始化时分配好，initApp 只填充字段而不重新赋值 —— 子命令的闭包
// 在 GenerateCmd/AdjustCmd/ValidateCmd 构造时捕获的是这个指针本身。
var app = &commands.AppContext{}

func main() {
	rootCmd := &cobra.Command{
		Use:   "rxsched-cli",
		Short: "RxSched 药房排班引擎命令行工具",
		Long:  `直接调用 CP-SAT 排班引擎构建、调整或预检月度排班，无需部署 HTTP 服务。`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
	}

	rootCmd.AddCommand(commands.GenerateCmd(app))
	rootCmd.AddCommand(commands.AdjustCmd(app))
	rootCmd.AddCommand(commands.ValidateCmd(app))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp 加载配置并按需连接数据库；数据库不可用时退化为无持久化模式
func initApp() error {
	logger.Init(logger.Config{
		Level:  os.Getenv("APP_LOG_LEVEL"),
		Format: "console",
	})

	cfg := config.Load()
	app.Cfg = cfg
	app.Logger = logger.Get()
	app.Ctx = context.Background()

	if cfg.Database.Host != "" {
		db, err := database.New(&cfg.Database)
		if err != nil {
			logger.Warn().Err(err).Msg("数据库连接失败，以无持久化模式运行")
			return nil
		}
		app.ScheduleRepo = repository.NewScheduleRepository(db)
	}

	return nil
}
