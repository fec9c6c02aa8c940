package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"energy-center-checklist/config"
	"energy-center-checklist/models"

	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// HistoryFilter carries the query parameters of the history pages. Empty
// fields do not filter.
type HistoryFilter struct {
	EquipmentID  uint
	SubmissionID uint
	Technician   string
	Type         string
	DateFrom     string
	DateTo       string
	Page         int
	PageSize     int
}

// DateRange is a half-open [From, To) interval.
type DateRange struct {
	From time.Time
	To   time.Time
}

// ParseDateRange reads two yyyy-mm-dd dates in loc. The end date is inclusive,
// so To is the following midnight. Both dates are required; a missing or
// unparsable date disables the filter.
func ParseDateRange(from, to string, loc *time.Location) (DateRange, bool) {
	from, to = strings.TrimSpace(from), strings.TrimSpace(to)
	if from == "" || to == "" {
		return DateRange{}, false
	}
	start, err := time.ParseInLocation(dateLayout, from, loc)
	if err != nil {
		return DateRange{}, false
	}
	end, err := time.ParseInLocation(dateLayout, to, loc)
	if err != nil {
		return DateRange{}, false
	}
	return DateRange{From: start, To: end.AddDate(0, 0, 1)}, true
}

// StatusHistoryPage is the data of /historico.
type StatusHistoryPage struct {
	Entries     []models.StatusHistoryEntry
	Pagination  Pagination
	Technicians []string
	Types       []string
	DateApplied bool
}

// ChecklistHistoryRow is an item record with the header of its submission.
type ChecklistHistoryRow struct {
	models.ItemRecord
	Technician  string    `gorm:"column:checklist_tecnico"`
	Shift       string    `gorm:"column:checklist_turno"`
	SubmittedAt time.Time `gorm:"column:checklist_data_criacao"`
}

// ChecklistHistoryPage is the data of /historico_checklist.
type ChecklistHistoryPage struct {
	Rows        []ChecklistHistoryRow
	Pagination  Pagination
	Technicians []string
	Systems     []string
	DateApplied bool
}

type HistoryService struct {
	db  *gorm.DB
	loc *time.Location
}

func NewHistoryService(db *gorm.DB, loc *time.Location) *HistoryService {
	if db == nil {
		db = config.DB
	}
	if loc == nil {
		loc = config.Cfg.FacilityLocation()
	}
	return &HistoryService{db: db, loc: loc}
}

func (s *HistoryService) statusHistoryQuery(ctx context.Context, f HistoryFilter) (*gorm.DB, bool) {
	q := s.db.WithContext(ctx).
		Model(&models.StatusHistoryEntry{}).
		Joins("JOIN status_equipamentos ON status_equipamentos.id = historico_status.equipamento_id")

	if f.EquipmentID > 0 {
		q = q.Where("historico_status.equipamento_id = ?", f.EquipmentID)
	}
	if t := strings.TrimSpace(f.Technician); t != "" {
		q = q.Where("LOWER(historico_status.tecnico) LIKE ?", likePattern(t))
	}
	if t := strings.TrimSpace(f.Type); t != "" {
		q = q.Where("LOWER(status_equipamentos.tipo) LIKE ?", likePattern(t))
	}

	r, applied := ParseDateRange(f.DateFrom, f.DateTo, s.loc)
	if applied {
		q = q.Where("historico_status.data_modificacao >= ? AND historico_status.data_modificacao < ?", r.From, r.To)
	}
	return q.Session(&gorm.Session{}), applied
}

// StatusHistory returns a page of status changes, newest first.
func (s *HistoryService) StatusHistory(ctx context.Context, f HistoryFilter) (*StatusHistoryPage, error) {
	page, pageSize := normalizePage(f.Page, f.PageSize, config.Cfg.HistoryPageSize)
	q, applied := s.statusHistoryQuery(ctx, f)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count status history: %w", err)
	}

	var entries []models.StatusHistoryEntry
	err := q.Preload("Equipment").
		Order("historico_status.data_modificacao DESC, historico_status.id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load status history: %w", err)
	}

	technicians, err := s.distinct(ctx, &models.StatusHistoryEntry{}, "tecnico")
	if err != nil {
		return nil, err
	}
	types, err := s.distinct(ctx, &models.EquipmentStatus{}, "tipo")
	if err != nil {
		return nil, err
	}

	return &StatusHistoryPage{
		Entries:     entries,
		Pagination:  NewPagination(page, pageSize, total),
		Technicians: technicians,
		Types:       types,
		DateApplied: applied,
	}, nil
}

// StatusHistoryAll returns every matching status change, for exports.
func (s *HistoryService) StatusHistoryAll(ctx context.Context, f HistoryFilter) ([]models.StatusHistoryEntry, error) {
	q, _ := s.statusHistoryQuery(ctx, f)

	var entries []models.StatusHistoryEntry
	err := q.Preload("Equipment").
		Order("historico_status.data_modificacao DESC, historico_status.id DESC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load status history: %w", err)
	}
	return entries, nil
}

// ChecklistHistory returns a page of recorded items across submissions,
// newest submission first.
func (s *HistoryService) ChecklistHistory(ctx context.Context, f HistoryFilter) (*ChecklistHistoryPage, error) {
	page, pageSize := normalizePage(f.Page, f.PageSize, config.Cfg.HistoryPageSize)

	q := s.db.WithContext(ctx).
		Table("itens_registro").
		Joins("JOIN checklist ON checklist.id = itens_registro.checklist_id")

	if f.SubmissionID > 0 {
		q = q.Where("itens_registro.checklist_id = ?", f.SubmissionID)
	}
	if t := strings.TrimSpace(f.Technician); t != "" {
		q = q.Where("LOWER(checklist.tecnico) LIKE ?", likePattern(t))
	}
	if t := strings.TrimSpace(f.Type); t != "" {
		q = q.Where("LOWER(itens_registro.sistema) LIKE ?", likePattern(t))
	}
	r, applied := ParseDateRange(f.DateFrom, f.DateTo, s.loc)
	if applied {
		q = q.Where("checklist.data_criacao >= ? AND checklist.data_criacao < ?", r.From, r.To)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count checklist history: %w", err)
	}

	var rows []ChecklistHistoryRow
	err := q.Select("itens_registro.*, " +
		"checklist.tecnico AS checklist_tecnico, " +
		"checklist.turno AS checklist_turno, " +
		"checklist.data_criacao AS checklist_data_criacao").
		Order("checklist.data_criacao DESC, itens_registro.id ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load checklist history: %w", err)
	}

	technicians, err := s.distinct(ctx, &models.ChecklistSubmission{}, "tecnico")
	if err != nil {
		return nil, err
	}
	systems, err := s.distinct(ctx, &models.ItemTemplate{}, "sistema")
	if err != nil {
		return nil, err
	}

	return &ChecklistHistoryPage{
		Rows:        rows,
		Pagination:  NewPagination(page, pageSize, total),
		Technicians: technicians,
		Systems:     orderedSystems(systems),
		DateApplied: applied,
	}, nil
}

func (s *HistoryService) distinct(ctx context.Context, model interface{}, column string) ([]string, error) {
	var values []string
	err := s.db.WithContext(ctx).Model(model).
		Where(column + " IS NOT NULL AND " + column + " <> ''").
		Distinct(column).
		Order(column + " ASC").
		Pluck(column, &values).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list distinct %s: %w", column, err)
	}
	return values, nil
}

func likePattern(s string) string {
	escaper := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + escaper.Replace(strings.ToLower(s)) + "%"
}
