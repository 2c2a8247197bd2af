// Package commands 提供 rxsched CLI 的各个子命令
package commands

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/paiban/rxsched/internal/config"
	"github.com/paiban/rxsched/internal/repository"
)

// AppContext 持有各子命令共享的依赖。generate/adjust/validate 子命令读取的
// 员工与班次目录均随请求 JSON 内联提交，因此这里只持有排班文档仓储。
type AppContext struct {
	Cfg          *config.Config
	ScheduleRepo *repository.ScheduleRepository
	Logger       *zerolog.Logger
	Ctx          context.Context
}
