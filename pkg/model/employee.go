// Package model 定义排班引擎的核心数据模型
package model

// Employee 药房员工
type Employee struct {
	BaseModel
	Name  string `json:"name" db:"name" validate:"required"`
	Email string `json:"email,omitempty" db:"email" validate:"omitempty,email"`

	// 工时上限，单位小时；期望 daily <= weekly <= monthly，但构建阶段不做强制校验
	MaxDailyHours   int `json:"max_daily_hours" db:"max_daily_hours" validate:"gte=0"`
	MaxWeeklyHours  int `json:"max_weekly_hours" db:"max_weekly_hours" validate:"gte=0"`
	MaxMonthlyHours int `json:"max_monthly_hours" db:"max_monthly_hours" validate:"gte=0"`

	// PersonalHolidays 员工个人假期，格式 YYYY-MM-DD，期间一律不得排班
	PersonalHolidays []string `json:"personal_holidays,omitempty" db:"personal_holidays"`

	// FavoriteShifts 员工偏好班次 ID，命中时计入目标函数加分
	FavoriteShifts []string `json:"favorite_shifts,omitempty" db:"favorite_shifts"`

	// PreferredDaysOff 偏好的休息日，0=周日...6=周六；字段保留供将来使用，
	// 目标函数尚未读取该字段
	PreferredDaysOff []int `json:"preferred_days_off,omitempty" db:"preferred_days_off"`
}

// HasHoliday 检查某天是否为该员工的个人假期
func (e *Employee) HasHoliday(date string) bool {
	for _, d := range e.PersonalHolidays {
		if d == date {
			return true
		}
	}
	return false
}

// PrefersShift 检查某班次是否在员工收藏列表中
func (e *Employee) PrefersShift(shiftID string) bool {
	for _, s := range e.FavoriteShifts {
		if s == shiftID {
			return true
		}
	}
	return false
}
