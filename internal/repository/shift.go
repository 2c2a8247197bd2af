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

// ShiftTemplateRepository 班次模板仓储
type ShiftTemplateRepository struct {
	db DB
}

// NewShiftTemplateRepository 创建班次模板仓储
func NewShiftTemplateRepository(db DB) *ShiftTemplateRepository {
	return &ShiftTemplateRepository{db: db}
}

// Create 创建班次模板
func (r *ShiftTemplateRepository) Create(ctx context.Context, tpl *model.ShiftTemplate) error {
	if tpl.ID == uuid.Nil {
		tpl.ID = uuid.New()
	}
	now := time.Now()
	tpl.CreatedAt = now
	tpl.UpdatedAt = now

	weekdaysJSON, _ := json.Marshal(tpl.Weekdays)

	query := `
		INSERT INTO shift_templates (
			id, name, start_minute, end_minute, duration_hours,
			weekdays, fixed_date, type, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.ExecContext(ctx, query,
		tpl.ID, tpl.Name, tpl.StartMinute, tpl.EndMinute, tpl.DurationHours,
		weekdaysJSON, nullableDate(tpl.FixedDate), tpl.Type, tpl.CreatedAt, tpl.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("创建班次模板失败: %w", err)
	}

	return nil
}

// GetByID 根据ID获取班次模板
func (r *ShiftTemplateRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.ShiftTemplate, error) {
	query := `
		SELECT id, name, start_minute, end_minute, duration_hours,
			weekdays, fixed_date, type, created_at, updated_at
		FROM shift_templates
		WHERE id = $1 AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

// Update 更新班次模板
func (r *ShiftTemplateRepository) Update(ctx context.Context, tpl *model.ShiftTemplate) error {
	tpl.UpdatedAt = time.Now()
	weekdaysJSON, _ := json.Marshal(tpl.Weekdays)

	query := `
		UPDATE shift_templates SET
			name = $2, start_minute = $3, end_minute = $4, duration_hours = $5,
			weekdays = $6, fixed_date = $7, type = $8, updated_at = $9
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query,
		tpl.ID, tpl.Name, tpl.StartMinute, tpl.EndMinute, tpl.DurationHours,
		weekdaysJSON, nullableDate(tpl.FixedDate), tpl.Type, tpl.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("更新班次模板失败: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("班次模板不存在")
	}

	return nil
}

// Delete 软删除班次模板
func (r *ShiftTemplateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE shift_templates SET deleted_at = $2 WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, id, time.Now())
	if err != nil {
		return fmt.Errorf("删除班次模板失败: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("班次模板不存在")
	}

	return nil
}

// List 查询班次模板列表
func (r *ShiftTemplateRepository) List(ctx context.Context, filter ListFilter) ([]*model.ShiftTemplate, int, error) {
	var conditions []string
	var args []interface{}
	argIndex := 1

	conditions = append(conditions, "deleted_at IS NULL")

	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("type = $%d", argIndex))
		args = append(args, filter.Status)
		argIndex++
	}

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("name ILIKE $%d", argIndex))
		args = append(args, "%"+filter.Search+"%")
		argIndex++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM shift_templates WHERE %s", whereClause)
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("查询总数失败: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, name, start_minute, end_minute, duration_hours,
			weekdays, fixed_date, type, created_at, updated_at
		FROM shift_templates
		WHERE %s
		ORDER BY start_minute ASC
		LIMIT $%d OFFSET $%d
	`, whereClause, argIndex, argIndex+1)

	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("查询列表失败: %w", err)
	}
	defer rows.Close()

	var templates []*model.ShiftTemplate
	for rows.Next() {
		tpl, err := r.scanRow(rows)
		if err != nil {
			return nil, 0, err
		}
		templates = append(templates, tpl)
	}

	return templates, total, nil
}

// ListAll 获取未删除的班次模板（最多 1000 条，不按药房或月份过滤）
func (r *ShiftTemplateRepository) ListAll(ctx context.Context) ([]*model.ShiftTemplate, error) {
	templates, _, err := r.List(ctx, DefaultListFilter().WithLimit(1000))
	return templates, err
}

func (r *ShiftTemplateRepository) scanOne(row *sql.Row) (*model.ShiftTemplate, error) {
	tpl := &model.ShiftTemplate{}
	var weekdaysJSON []byte
	var fixedDate sql.NullString

	err := row.Scan(
		&tpl.ID, &tpl.Name, &tpl.StartMinute, &tpl.EndMinute, &tpl.DurationHours,
		&weekdaysJSON, &fixedDate, &tpl.Type, &tpl.CreatedAt, &tpl.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("扫描班次模板失败: %w", err)
	}

	json.Unmarshal(weekdaysJSON, &tpl.Weekdays)
	tpl.FixedDate = fixedDate.String
	return tpl, nil
}

func (r *ShiftTemplateRepository) scanRow(rows *sql.Rows) (*model.ShiftTemplate, error) {
	tpl := &model.ShiftTemplate{}
	var weekdaysJSON []byte
	var fixedDate sql.NullString

	err := rows.Scan(
		&tpl.ID, &tpl.Name, &tpl.StartMinute, &tpl.EndMinute, &tpl.DurationHours,
		&weekdaysJSON, &fixedDate, &tpl.Type, &tpl.CreatedAt, &tpl.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("扫描班次模板失败: %w", err)
	}

	json.Unmarshal(weekdaysJSON, &tpl.Weekdays)
	tpl.FixedDate = fixedDate.String
	return tpl, nil
}

func nullableDate(d string) sql.NullString {
	if d == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: d, Valid: true}
}
