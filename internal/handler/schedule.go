// Package handler 提供HTTP请求处理器
package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/paiban/rxsched/internal/metrics"
	"github.com/paiban/rxsched/internal/repository"
	"github.com/paiban/rxsched/pkg/coverage"
	"github.com/paiban/rxsched/pkg/cpsched"
	"github.com/paiban/rxsched/pkg/errors"
	"github.com/paiban/rxsched/pkg/model"
)

// ScheduleHandler 排班处理器：generate 构建并持久化新日历，adjust 在已有
// 日历上叠加用户钉选后重新求解，validate 只做不调用求解器的可行性预检。
type ScheduleHandler struct {
	scheduleRepo *repository.ScheduleRepository
	employeeRepo *repository.EmployeeRepository
	shiftRepo    *repository.ShiftTemplateRepository
	validate     *validator.Validate
}

// NewScheduleHandler 创建排班处理器
func NewScheduleHandler(
	scheduleRepo *repository.ScheduleRepository,
	employeeRepo *repository.EmployeeRepository,
	shiftRepo *repository.ShiftTemplateRepository,
) *ScheduleHandler {
	return &ScheduleHandler{
		scheduleRepo: scheduleRepo,
		employeeRepo: employeeRepo,
		shiftRepo:    shiftRepo,
		validate:     validator.New(),
	}
}

// NewScheduleHandlerWithoutDB 创建无持久化模式的排班处理器：generate/adjust
// 仍会运行求解器并返回结果，只是不落库（数据库不可用时的降级模式）
func NewScheduleHandlerWithoutDB() *ScheduleHandler {
	return &ScheduleHandler{validate: validator.New()}
}

// GenerateRequest 排班生成请求，镜像 pkg/cpsched.Request 的外部契约；
// 不含 numSearchWorkers/hourScale，这两项在 ToCoreRequest 中保持零值（由 cpsched 取默认值）
type GenerateRequest struct {
	CompanyID          string                `json:"companyId" validate:"required"`
	FarmacyID          string                `json:"farmacyId" validate:"required"`
	Month              string                `json:"month" validate:"required,datetime=2006-01"`
	Employees          []model.Employee      `json:"employees" validate:"required,min=1,dive"`
	ShiftCatalog       []model.ShiftTemplate `json:"shiftCatalog" validate:"required,min=1,dive"`
	Coverage           coverage.Config       `json:"coverage"`
	MinRestDaysPerWeek int                   `json:"minRestDaysPerWeek" validate:"gte=0"`
	Weights            cpsched.Weights       `json:"weights"`
	Pins               []model.Pin           `json:"pins,omitempty"`
	TimeoutSeconds     int                   `json:"timeoutSeconds,omitempty" validate:"gte=0"`
}

func (req *GenerateRequest) ToCoreRequest() cpsched.Request {
	return cpsched.Request{
		Month:              req.Month,
		Employees:          req.Employees,
		ShiftCatalog:       req.ShiftCatalog,
		Coverage:           req.Coverage,
		MinRestDaysPerWeek: req.MinRestDaysPerWeek,
		Weights:            req.Weights,
		Pins:               req.Pins,
		TimeoutSeconds:     req.TimeoutSeconds,
	}
}

// Generate 构建本月日历：运行求解器，成功则以 "generated" 状态落库
func (h *ScheduleHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.InvalidInput("body", "无法解析请求体"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondError(w, errors.InvalidInput("body", err.Error()))
		return
	}

	start := time.Now()
	result, err := cpsched.Generate(r.Context(), req.ToCoreRequest())
	if err != nil {
		respondError(w, asAppError(err))
		return
	}
	metrics.RecordScheduleGeneration(result.Status, time.Since(start))
	metrics.RecordSolverStatus(result.Metrics.Status)
	if result.Status == cpsched.OutcomeSuccess {
		metrics.SetEquityScore(req.FarmacyID, result.Metrics.Equity)
	}

	if result.Status == cpsched.OutcomeSuccess && h.scheduleRepo != nil {
		doc := repository.NewScheduleDocument(req.FarmacyID, req.CompanyID, req.Month, result, req.ShiftCatalog, time.Now().UnixMilli())
		if err := h.scheduleRepo.Upsert(r.Context(), doc); err != nil {
			respondError(w, errors.Wrap(err, errors.CodeDatabaseError, "持久化日历失败"))
			return
		}
	}

	respondJSON(w, http.StatusOK, result)
}

// AdjustRequest 在已有日历基础上叠加钉选后重新求解
type AdjustRequest struct {
	GenerateRequest
}

// Adjust 使用追加的钉选重新求解，成功后将日历状态推进为 "modified"
func (h *ScheduleHandler) Adjust(w http.ResponseWriter, r *http.Request) {
	var req AdjustRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.InvalidInput("body", "无法解析请求体"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondError(w, errors.InvalidInput("body", err.Error()))
		return
	}

	start := time.Now()
	result, err := cpsched.Generate(r.Context(), req.ToCoreRequest())
	if err != nil {
		respondError(w, asAppError(err))
		return
	}
	metrics.RecordScheduleGeneration(result.Status, time.Since(start))
	metrics.RecordSolverStatus(result.Metrics.Status)
	if result.Status == cpsched.OutcomeSuccess {
		metrics.SetEquityScore(req.FarmacyID, result.Metrics.Equity)
	}

	if result.Status == cpsched.OutcomeSuccess && h.scheduleRepo != nil {
		doc := repository.NewScheduleDocument(req.FarmacyID, req.CompanyID, req.Month, result, req.ShiftCatalog, time.Now().UnixMilli())
		doc.State = repository.ScheduleModified
		if err := h.scheduleRepo.Upsert(r.Context(), doc); err != nil {
			respondError(w, errors.Wrap(err, errors.CodeDatabaseError, "持久化日历失败"))
			return
		}
	}

	respondJSON(w, http.StatusOK, result)
}

// ValidateRequest 可行性预检请求：只做粗粒度的可行性筛查，不调用求解器
type ValidateRequest struct {
	Month              string                `json:"month" validate:"required,datetime=2006-01"`
	Employees          []model.Employee      `json:"employees" validate:"required,min=1,dive"`
	ShiftCatalog       []model.ShiftTemplate `json:"shiftCatalog" validate:"required,min=1,dive"`
	Coverage           coverage.Config       `json:"coverage"`
	MinRestDaysPerWeek int                   `json:"minRestDaysPerWeek" validate:"gte=0"`
}

// ValidateResponse 预检结果：不可行时给出触发原因列表
type ValidateResponse struct {
	Feasible bool     `json:"feasible"`
	Reasons  []string `json:"reasons,omitempty"`
}

// Validate 执行三项不调用求解器的粗粒度可行性检查：
//  1. 员工总数 >= 所有 (日期, 班次) 对中需求人数的最大值；
//  2. 本月可供工时总量 >= 本月工时需求总量的 0.8 倍；
//  3. 没有员工的个人假期天数超过本月天数的 30%。
func (h *ScheduleHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req ValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.InvalidInput("body", "无法解析请求体"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondError(w, errors.InvalidInput("body", err.Error()))
		return
	}

	monthStart, err := time.Parse("2006-01", req.Month)
	if err != nil {
		respondError(w, errors.InvalidInput("month", "格式必须为 YYYY-MM"))
		return
	}
	daysInMonth := monthStart.AddDate(0, 1, 0).Add(-24 * time.Hour).Day()

	var reasons []string

	if maxRequired := MaxHeadcountRequired(req, monthStart, daysInMonth); len(req.Employees) < maxRequired {
		reasons = append(reasons, fmt.Sprintf("员工总数 %d 小于最大并发需求人数 %d", len(req.Employees), maxRequired))
	}

	supply, demand := MonthlyHourBalance(req, monthStart, daysInMonth)
	if float64(supply) < 0.8*float64(demand) {
		reasons = append(reasons, fmt.Sprintf("本月可供工时 %d 小于需求工时 %d 的80%%（需至少 %.0f）", supply, demand, 0.8*float64(demand)))
	}

	for _, e := range req.Employees {
		if len(e.PersonalHolidays) > daysInMonth*3/10 {
			reasons = append(reasons, fmt.Sprintf("员工 %s 的个人假期天数超过本月的30%%", e.ID))
		}
	}

	respondJSON(w, http.StatusOK, ValidateResponse{Feasible: len(reasons) == 0, Reasons: reasons})
}

// MaxHeadcountRequired 返回本月内任意 (日期, 班次) 对要求的最大同时在岗人数，
// 只扫描该班次本身在该日期生效的 (date, shift) 组合
func MaxHeadcountRequired(req ValidateRequest, monthStart time.Time, daysInMonth int) int {
	resolver := coverage.NewResolver(req.Coverage)
	max := 0
	for day := 0; day < daysInMonth; day++ {
		date := monthStart.AddDate(0, 0, day)
		for _, tpl := range req.ShiftCatalog {
			if !shiftAppliesOn(tpl, date) {
				continue
			}
			if n := resolver.Required(date, tpl); n > max {
				max = n
			}
		}
	}
	return max
}

// MonthlyHourBalance 返回本月的工时供给总量（员工月工时上限之和）与工时需求总量
func MonthlyHourBalance(req ValidateRequest, monthStart time.Time, daysInMonth int) (supply, demand int) {
	for _, e := range req.Employees {
		supply += e.MaxMonthlyHours
	}

	resolver := coverage.NewResolver(req.Coverage)
	for day := 0; day < daysInMonth; day++ {
		date := monthStart.AddDate(0, 0, day)
		for _, tpl := range req.ShiftCatalog {
			if !shiftAppliesOn(tpl, date) {
				continue
			}
			demand += resolver.Required(date, tpl) * int(tpl.DurationHours)
		}
	}
	return supply, demand
}

func shiftAppliesOn(tpl model.ShiftTemplate, date time.Time) bool {
	if tpl.HasFixedDate() {
		return tpl.FixedDate == date.Format("2006-01-02")
	}
	iso := coverage.ISOWeekday(date)
	for _, d := range tpl.Weekdays {
		if d == iso {
			return true
		}
	}
	return false
}

// asAppError 保留 cpsched.Generate 返回的 AppError 错误码，其他错误按内部错误处理
func asAppError(err error) *errors.AppError {
	if appErr, ok := err.(*errors.AppError); ok {
		return appErr
	}
	return errors.Wrap(err, errors.CodeInternal, "排班求解失败")
}

// respondJSON 返回JSON响应
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError 返回错误响应
func respondError(w http.ResponseWriter, err *errors.AppError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.HTTPStatus)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error":   true,
		"code":    err.Code,
		"message": err.Message,
		"details": err.Details,
	})
}
