package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/paiban/rxsched/internal/repository"
	"github.com/paiban/rxsched/pkg/cpsched"
)

// GenerateCmd 创建 generate 命令
func GenerateCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "generate <request.json>",
		Short: "从 JSON 请求文件构建一份新日历（使用 \"-\" 从标准输入读取）",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := loadGenerateRequest(args[0])
			if err != nil {
				return err
			}

			start := time.Now()
			result, err := cpsched.Generate(app.Ctx, req.ToCoreRequest())
			if err != nil {
				return fmt.Errorf("求解失败: %w", err)
			}

			printResult(result, time.Since(start))

			if result.Status == cpsched.OutcomeSuccess && app.ScheduleRepo != nil {
				doc := repository.NewScheduleDocument(req.FarmacyID, req.CompanyID, req.Month, result, req.ShiftCatalog, time.Now().UnixMilli())
				if err := app.ScheduleRepo.Upsert(app.Ctx, doc); err != nil {
					return fmt.Errorf("持久化日历失败: %w", err)
				}
				fmt.Printf("已写入日历文档 %s/%s（状态 generated）\n", req.FarmacyID, req.Month)
			}

			return nil
		},
	}
}

func printResult(result *cpsched.Result, elapsed time.Duration) {
	fmt.Printf("\n求解状态: %s (%s)\n", result.Status, elapsed)
	fmt.Printf("工时公平性得分: %.4f\n", result.Metrics.Equity)
	if len(result.Warnings) > 0 {
		fmt.Println("警告:")
		for _, w := range result.Warnings {
			fmt.Printf("  - %s\n", w)
		}
	}
	if len(result.Suggestions) > 0 {
		fmt.Println("建议:")
		for _, s := range result.Suggestions {
			fmt.Printf("  - %s\n", s)
		}
	}
	fmt.Printf("涉及员工数: %d\n\n", len(result.Schedule))
}
