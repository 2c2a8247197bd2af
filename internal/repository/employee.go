// Package repository 提供数据访问层
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/paiban/rxsched/pkg/model"
)

// EmployeeRepository 员工仓储
type EmployeeRepository struct {
	db DB
}

// NewEmployeeRepository 创建员工仓储
func NewEmployeeRepository(db DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

// Create 创建员工
func (r *EmployeeRepository) Create(ctx context.Context, emp *model.Employee) error {
	if emp.ID == uuid.Nil {
		emp.ID = uuid.New()
	}
	now := time.Now()
	emp.CreatedAt = now
	emp.UpdatedAt = now

	holidaysJSON, _ := json.Marshal(emp.PersonalHolidays)
	favoritesJSON, _ := json.Marshal(emp.FavoriteShifts)
	daysOffJSON, _ := json.Marshal(emp.PreferredDaysOff)

	query := `
		INSERT INTO employees (
			id, name, email, max_daily_hours, max_weekly_hours, max_monthly_hours,
			personal_holidays, favorite_shifts, preferred_days_off, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.ExecContext(ctx, query,
		emp.ID, emp.Name, emp.Email, emp.MaxDailyHours, emp.MaxWeeklyHours, emp.MaxMonthlyHours,
		holidaysJSON, favoritesJSON, daysOffJSON, emp.CreatedAt, emp.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("创建员工失败: %w", err)
	}

	return nil
}

// GetByID 根据ID获取员工
func (r *EmployeeRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Employee, error) {
	query := `
		SELECT id, name, email, max_daily_hours, max_weekly_hours, max_monthly_hours,
			personal_holidays, favorite_shifts, preferred_days_off, created_at, updated_at
		FROM employees
		WHERE id = $1 AND deleted_at IS NULL
	`

	return r.scanEmployee(r.db.QueryRowContext(ctx, query, id))
}

// Update 更新员工
func (r *EmployeeRepository) Update(ctx context.Context, emp *model.Employee) error {
	emp.UpdatedAt = time.Now()

	holidaysJSON, _ := json.Marshal(emp.PersonalHolidays)
	favoritesJSON, _ := json.Marshal(emp.FavoriteShifts)
	daysOffJSON, _ := json.Marshal(emp.PreferredDaysOff)

	query := `
		UPDATE employees SET
			name = $2, email = $3, max_daily_hours = $4, max_weekly_hours = $5,
			max_monthly_hours = $6, personal_holidays = $7, favorite_shifts = $8,
			preferred_days_off = $9, updated_at = $10
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query,
		emp.ID, emp.Name, emp.Email, emp.MaxDailyHours, emp.MaxWeeklyHours,
		emp.MaxMonthlyHours, holidaysJSON, favoritesJSON, daysOffJSON, emp.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("更新员工失败: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("员工不存在")
	}

	return nil
}

// Delete 软删除员工
func (r *EmployeeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE employees SET deleted_at = $2 WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, id, time.Now())
	if err != nil {
		return fmt.Errorf("删除员工失败: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("员工不存在")
	}

	return nil
}

// List 查询员工列表
func (r *EmployeeRepository) List(ctx context.Context, filter ListFilter) ([]*model.Employee, int, error) {
	var conditions []string
	var args []interface{}
	argIndex := 1

	conditions = append(conditions, "deleted_at IS NULL")

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR email ILIKE $%d)", argIndex, argIndex))
		args = append(args, "%"+filter.Search+"%")
		argIndex++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM employees WHERE %s", whereClause)
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("查询总数失败: %w", err)
	}

	orderBy := filter.OrderBy
	if orderBy == "" {
		orderBy = "created_at"
	}
	orderDir := filter.OrderDir
	if orderDir == "" {
		orderDir = "desc"
	}

	query := fmt.Sprintf(`
		SELECT id, name, email, max_daily_hours, max_weekly_hours, max_monthly_hours,
			personal_holidays, favorite_shifts, preferred_days_off, created_at, updated_at
		FROM employees
		WHERE %s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d
	`, whereClause, orderBy, orderDir, argIndex, argIndex+1)

	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("查询列表失败: %w", err)
	}
	defer rows.Close()

	var employees []*model.Employee
	for rows.Next() {
		emp, err := r.scanEmployeeRow(rows)
		if err != nil {
			return nil, 0, err
		}
		employees = append(employees, emp)
	}

	return employees, total, nil
}

// ListByIDs 根据ID列表获取员工，用于构建排班请求时批量取出本月参与排班的人
func (r *EmployeeRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.Employee, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	query := fmt.Sprintf(`
		SELECT id, name, email, max_daily_hours, max_weekly_hours, max_monthly_hours,
			personal_holidays, favorite_shifts, preferred_days_off, created_at, updated_at
		FROM employees
		WHERE id IN (%s) AND deleted_at IS NULL
	`, strings.Join(placeholders, ","))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("查询员工失败: %w", err)
	}
	defer rows.Close()

	var employees []*model.Employee
	for rows.Next() {
		emp, err := r.scanEmployeeRow(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}

	return employees, nil
}

func (r *EmployeeRepository) scanEmployee(row *sql.Row) (*model.Employee, error) {
	emp := &model.Employee{}
	var holidaysJSON, favoritesJSON, daysOffJSON []byte

	err := row.Scan(
		&emp.ID, &emp.Name, &emp.Email, &emp.MaxDailyHours, &emp.MaxWeeklyHours, &emp.MaxMonthlyHours,
		&holidaysJSON, &favoritesJSON, &daysOffJSON, &emp.CreatedAt, &emp.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("扫描员工数据失败: %w", err)
	}

	json.Unmarshal(holidaysJSON, &emp.PersonalHolidays)
	json.Unmarshal(favoritesJSON, &emp.FavoriteShifts)
	json.Unmarshal(daysOffJSON, &emp.PreferredDaysOff)

	return emp, nil
}

func (r *EmployeeRepository) scanEmployeeRow(rows *sql.Rows) (*model.Employee, error) {
	emp := &model.Employee{}
	var holidaysJSON, favoritesJSON, daysOffJSON []byte

	err := rows.Scan(
		&emp.ID, &emp.Name, &emp.Email, &emp.MaxDailyHours, &emp.MaxWeeklyHours, &emp.MaxMonthlyHours,
		&holidaysJSON, &favoritesJSON, &daysOffJSON, &emp.CreatedAt, &emp.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("扫描员工数据失败: %w", err)
	}

	json.Unmarshal(holidaysJSON, &emp.PersonalHolidays)
	json.Unmarshal(favoritesJSON, &emp.FavoriteShifts)
	json.Unmarshal(daysOffJSON, &emp.PreferredDaysOff)

	return emp, nil
}
