package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/paiban/rxsched/internal/repository"
	"github.com/paiban/rxsched/pkg/cpsched"
)

// AdjustCmd 创建 adjust 命令
func AdjustCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "adjust <request.json>",
		Short: "在已有日历上叠加钉选后重新求解，结果以 modified 状态落库",
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
				doc.State = repository.ScheduleModified
				if err := app.ScheduleRepo.Upsert(app.Ctx, doc); err != nil {
					return fmt.Errorf("持久化日历失败: %w", err)
				}
				fmt.Printf("已写入日历文档 %s/%s（状态 modified）\n", req.FarmacyID, req.Month)
			}

			return nil
		},
	}
}
