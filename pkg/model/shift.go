// Package model 定义排班引擎的核心数据模型
package model

// ShiftType 班次类型
type ShiftType string

const (
	ShiftRegular ShiftType = "regular" // 常规班次
	ShiftGuard   ShiftType = "guard"   // 值班/指定日期班次
	ShiftHoliday ShiftType = "holiday" // 节假日班次
)

// ShiftTemplate 班次模板。有效日与重叠关系由 pkg/catalog 在构建目录时计算，
// 本结构体只承载原始字段。
type ShiftTemplate struct {
	BaseModel
	Name string `json:"name" db:"name" validate:"required"`

	// StartMinute/EndMinute 班次起止时间，单位为一天内的分钟数，取值范围 [0, 1440]；
	// EndMinute 必须严格大于 StartMinute，跨夜班次不支持
	StartMinute int `json:"start_minute" db:"start_minute" validate:"gte=0,lte=1440"`
	EndMinute   int `json:"end_minute" db:"end_minute" validate:"gte=0,lte=1440,gtfield=StartMinute"`

	// DurationHours 冗余字段，必须与 (StartMinute, EndMinute) 的推算值相差不超过半小时，
	// 否则视为输入错误，(start, end) 为准
	DurationHours float64 `json:"duration_hours" db:"duration_hours" validate:"gt=0"`

	// Weekdays ISO 工作日集合，1=周一...7=周日；与 FixedDate 二选一，不能同时为空
	Weekdays []int `json:"weekdays,omitempty" db:"weekdays"`

	// FixedDate 指定日期班次（值班），格式 YYYY-MM-DD；非空时忽略 Weekdays
	FixedDate string `json:"fixed_date,omitempty" db:"fixed_date"`

	Type ShiftType `json:"type" db:"type"`
}

// HasFixedDate 报告该模板是否为固定日期（值班）班次
func (s ShiftTemplate) HasFixedDate() bool {
	return s.FixedDate != ""
}

// Pin 用户指定的固定分配：员工 EmployeeID 在 Date 必须上 ShiftID
type Pin struct {
	EmployeeID string `json:"employeeId"`
	Date       string `json:"date"`
	ShiftID    string `json:"shiftId"`
}

// Schedule 排班结果：员工ID -> (日期 -> 该日的班次ID列表)。
// 同一天可以出现多个班次ID，只要它们互不重叠（拆分早/晚班）。
type Schedule map[string]map[string][]string

// Assign 记录一次分配
func (s Schedule) Assign(employeeID, date, shiftID string) {
	if s[employeeID] == nil {
		s[employeeID] = make(map[string][]string)
	}
	s[employeeID][date] = append(s[employeeID][date], shiftID)
}

// EmployeeMetrics 单个员工的统计指标
type EmployeeMetrics struct {
	TotalHours   int `json:"totalHours"`
	GuardCount   int `json:"guardCount"`
	HolidayCount int `json:"holidayCount"`
}

// Metrics 排班结果的聚合统计
type Metrics struct {
	PerEmployee map[string]EmployeeMetrics `json:"perEmployee"`
	// Equity 公平性得分，基于总工时向量的总体标准差/均值换算，
	// 与目标函数内部优化时使用的 max-min 指标不同，仅用于上报展示
	Equity    float64 `json:"equity"`
	Status    string  `json:"status"`
	ElapsedMs int64   `json:"elapsedMs"`
}
