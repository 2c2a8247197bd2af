package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/paiban/rxsched/internal/handler"
)

// ValidateCmd 创建 validate 命令：不调用求解器的粗粒度可行性预检
func ValidateCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <request.json>",
		Short: "对排班输入做不调用求解器的可行性预检（使用 \"-\" 从标准输入读取）",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := loadValidateRequest(args[0])
			if err != nil {
				return err
			}

			monthStart, err := time.Parse("2006-01", req.Month)
			if err != nil {
				return fmt.Errorf("month 格式必须为 YYYY-MM: %w", err)
			}
			daysInMonth := monthStart.AddDate(0, 1, 0).Add(-24 * time.Hour).Day()

			var reasons []string
			if maxRequired := handler.MaxHeadcountRequired(req, monthStart, daysInMonth); len(req.Employees) < maxRequired {
				reasons = append(reasons, fmt.Sprintf("员工总数 %d 小于最大并发需求人数 %d", len(req.Employees), maxRequired))
			}
			supply, demand := handler.MonthlyHourBalance(req, monthStart, daysInMonth)
			if float64(supply) < 0.8*float64(demand) {
				reasons = append(reasons, fmt.Sprintf("本月可供工时 %d 小于需求工时 %d 的80%%（需至少 %.0f）", supply, demand, 0.8*float64(demand)))
			}
			for _, e := range req.Employees {
				if len(e.PersonalHolidays) > daysInMonth*3/10 {
					reasons = append(reasons, fmt.Sprintf("员工 %s 的个人假期天数超过本月的30%%", e.ID))
				}
			}

			if len(reasons) == 0 {
				fmt.Println("\n✓ 可行性预检通过\n")
				return nil
			}

			fmt.Println("\n✗ 可行性预检未通过：")
			for _, r := range reasons {
				fmt.Printf("  - %s\n", r)
			}
			fmt.Println()
			return nil
		},
	}
}
