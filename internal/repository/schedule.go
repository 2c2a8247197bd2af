// Package repository 提供数据访问层
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/paiban/rxsched/pkg/cpsched"
	"github.com/paiban/rxsched/pkg/model"
)

// ScheduleMetadata 对应文档形态中的 metadata 字段
type ScheduleMetadata struct {
	CompanyID string `json:"companyId"`
	FarmacyID string `json:"farmacyId"`
	Year      int    `json:"year"`
	Month     int    `json:"month"`
	CreatedAt int64  `json:"createdAt"` // epoch-ms
	UpdatedAt int64  `json:"updatedAt"` // epoch-ms
}

// Turno 一次具体分配，对应 turnos 映射中的一条记录
type Turno struct {
	EmployeeID      string `json:"employeeId"`
	Date            string `json:"date"`
	ShiftID         string `json:"shiftId"`
	StartHour       int    `json:"startHour"`
	EndHour         int    `json:"endHour"`
	DurationMinutes int    `json:"durationMinutes"`
	Type            string `json:"type"`
	State           string `json:"state"` // confirmado
	CreatedAt       int64  `json:"createdAt"`
	UpdatedAt       int64  `json:"updatedAt"`
}

// ScheduleState 日历文档的生命周期状态
type ScheduleState string

const (
	ScheduleGenerated ScheduleState = "generated"
	ScheduleModified  ScheduleState = "modified"
)

// ScheduleDocument 镜像 calendarios/{farmacyId}/{month} 的文档形态
type ScheduleDocument struct {
	FarmacyID string           `json:"farmacyId"`
	Month     string           `json:"month"` // YYYY-MM
	State     ScheduleState    `json:"state"`
	Metadata  ScheduleMetadata `json:"metadata"`
	Turnos    map[string]Turno `json:"turnos"`
	Metricas  model.Metrics    `json:"metricas"`
	Version   int              `json:"-"`
}

// PushKey 生成 turnos 映射的键，镜像原实现的推送式主键命名
func PushKey(employeeID, date, shiftID string) string {
	return fmt.Sprintf("%s_%s_%s", employeeID, date, shiftID)
}

// NewScheduleDocument 从求解结果构建待持久化的文档
func NewScheduleDocument(farmacyID, companyID, month string, result *cpsched.Result, catalog []model.ShiftTemplate, nowMs int64) *ScheduleDocument {
	byID := make(map[string]model.ShiftTemplate, len(catalog))
	for _, tpl := range catalog {
		byID[tpl.ID.String()] = tpl
	}

	var year, mm int
	fmt.Sscanf(month, "%d-%d", &year, &mm)

	doc := &ScheduleDocument{
		FarmacyID: farmacyID,
		Month:     month,
		State:     ScheduleGenerated,
		Metadata: ScheduleMetadata{
			CompanyID: companyID,
			FarmacyID: farmacyID,
			Year:      year,
			Month:     mm,
			CreatedAt: nowMs,
			UpdatedAt: nowMs,
		},
		Turnos:   make(map[string]Turno),
		Metricas: result.Metrics,
	}

	for employeeID, byDate := range result.Schedule {
		for date, shiftIDs := range byDate {
			for _, shiftID := range shiftIDs {
				tpl, ok := byID[shiftID]
				if !ok {
					continue
				}
				doc.Turnos[PushKey(employeeID, date, shiftID)] = Turno{
					EmployeeID:      employeeID,
					Date:            date,
					ShiftID:         shiftID,
					StartHour:       tpl.StartMinute / 60,
					EndHour:         tpl.EndMinute / 60,
					DurationMinutes: tpl.EndMinute - tpl.StartMinute,
					Type:            string(tpl.Type),
					State:           "confirmado",
					CreatedAt:       nowMs,
					UpdatedAt:       nowMs,
				}
			}
		}
	}

	return doc
}

// ScheduleRepository 日历文档仓储：每个 (farmacyId, month) 对应单行，
// 文档整体以 JSONB 存储，version 列在每次写入时自增（写入时不比对 version）。
type ScheduleRepository struct {
	db DB
}

// NewScheduleRepository 创建日历文档仓储
func NewScheduleRepository(db DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// Get 按 (farmacyId, month) 读取日历文档
func (r *ScheduleRepository) Get(ctx context.Context, farmacyID, month string) (*ScheduleDocument, error) {
	query := `
		SELECT document, version
		FROM calendarios
		WHERE farmacy_id = $1 AND month = $2
	`

	var docJSON []byte
	var version int
	err := r.db.QueryRowContext(ctx, query, farmacyID, month).Scan(&docJSON, &version)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("查询日历文档失败: %w", err)
	}

	doc := &ScheduleDocument{}
	if err := json.Unmarshal(docJSON, doc); err != nil {
		return nil, fmt.Errorf("解析日历文档失败: %w", err)
	}
	doc.Version = version

	return doc, nil
}

// Upsert 写入日历文档：单行 upsert，version 自增一次，
// 由数据库侧的 INSERT ... ON CONFLICT 保证同一 (farmacyId, month) 的写入互相串行化。
func (r *ScheduleRepository) Upsert(ctx context.Context, doc *ScheduleDocument) error {
	docJSON, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("序列化日历文档失败: %w", err)
	}

	query := `
		INSERT INTO calendarios (farmacy_id, month, document, version)
		VALUES ($1, $2, $3, 1)
		ON CONFLICT (farmacy_id, month) DO UPDATE SET
			document = EXCLUDED.document,
			version = calendarios.version + 1
	`

	_, err = r.db.ExecContext(ctx, query, doc.FarmacyID, doc.Month, docJSON)
	if err != nil {
		return fmt.Errorf("写入日历文档失败: %w", err)
	}

	return nil
}

// MarkModified 将文档状态从 generated 推进到 modified（用户手动调整后调用）
func (r *ScheduleRepository) MarkModified(ctx context.Context, farmacyID, month string) error {
	doc, err := r.Get(ctx, farmacyID, month)
	if err != nil {
		return err
	}
	if doc == nil {
		return fmt.Errorf("日历文档不存在: %s/%s", farmacyID, month)
	}
	doc.State = ScheduleModified
	return r.Upsert(ctx, doc)
}

// Delete 删除日历文档
func (r *ScheduleRepository) Delete(ctx context.Context, farmacyID, month string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM calendarios WHERE farmacy_id = $1 AND month = $2", farmacyID, month)
	if err != nil {
		return fmt.Errorf("删除日历文档失败: %w", err)
	}
	return nil
}
