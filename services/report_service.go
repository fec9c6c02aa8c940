package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"energy-center-checklist/config"
	"energy-center-checklist/models"
	"energy-center-checklist/utils"

	"gorm.io/gorm"
)

const (
	untypedLabel       = "Sem Tipo"
	typeHistoryLimit   = 20
	statusHistoryLimit = 20
)

// Availability holds the status counts of a set of equipment and the share of
// units in OK. Rows whose status is not recognised are counted in Unknown and
// left out of the percentage.
type Availability struct {
	OK          int
	NOK         int
	Maintenance int
	Unknown     int
	Percent     float64
}

// Total is OK + NOK + Maintenance.
func (a Availability) Total() int {
	return a.OK + a.NOK + a.Maintenance
}

// Summarize counts statuses case- and accent-insensitively and computes
// availability = round(100 * OK / total, 1), 0 for an empty set.
func Summarize(equipment []models.EquipmentStatus) Availability {
	var a Availability
	for _, e := range equipment {
		a.add(e.Status)
	}
	a.Percent = availabilityPercent(a.OK, a.Total())
	return a
}

func (a *Availability) add(raw models.Status) {
	status, ok := utils.CanonicalStatus(string(raw))
	if !ok {
		a.Unknown++
		return
	}
	switch status {
	case models.StatusOK:
		a.OK++
	case models.StatusNOK:
		a.NOK++
	case models.StatusMaintenance:
		a.Maintenance++
	}
}

func availabilityPercent(ok, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(ok)*1000/float64(total)) / 10
}

// TypeSummary is the availability of one equipment type.
type TypeSummary struct {
	Type string
	Availability
}

// StatusDashboard is the data of /dashboard_status.
type StatusDashboard struct {
	Equipment []models.EquipmentStatus
	Overall   Availability
	ByType    []TypeSummary
}

// EquipmentOverview is one card of /dashboard_equipamentos.
type EquipmentOverview struct {
	Type         string
	Units        int
	Operating    int
	Availability Availability
	Equipment    []EquipmentUnit
}

// EquipmentUnit is a status row with its state in the latest checklist.
type EquipmentUnit struct {
	models.EquipmentStatus
	Operating bool
}

// EquipmentDashboard is the data of /dashboard_equipamentos.
type EquipmentDashboard struct {
	LatestSubmission *models.ChecklistSubmission
	Types            []EquipmentOverview
	// Snapshots in the latest checklist that match no status row.
	Unmatched []models.OperatingSnapshot
}

// TypeDetail is the data of /detalhes/{tipo}.
type TypeDetail struct {
	Type         string
	Equipment    []models.EquipmentStatus
	History      []models.StatusHistoryEntry
	Availability Availability
}

// StatusDetail is the data of /detalhes_status/{status}.
type StatusDetail struct {
	Status    models.Status
	Equipment []models.EquipmentStatus
	History   []models.StatusHistoryEntry
	Overall   Availability
}

type ReportService struct {
	db *gorm.DB
}

func NewReportService(db *gorm.DB) *ReportService {
	if db == nil {
		db = config.DB
	}
	return &ReportService{db: db}
}

func (s *ReportService) allEquipment(ctx context.Context) ([]models.EquipmentStatus, error) {
	var equipment []models.EquipmentStatus
	if err := s.db.WithContext(ctx).Order("tipo ASC, nome_equipamento ASC").Find(&equipment).Error; err != nil {
		return nil, fmt.Errorf("failed to load equipment: %w", err)
	}
	return equipment, nil
}

// StatusDashboard summarizes every equipment row, overall and per type.
func (s *ReportService) StatusDashboard(ctx context.Context) (*StatusDashboard, error) {
	equipment, err := s.allEquipment(ctx)
	if err != nil {
		return nil, err
	}
	return &StatusDashboard{
		Equipment: equipment,
		Overall:   Summarize(equipment),
		ByType:    SummarizeByType(equipment),
	}, nil
}

// SummarizeByType groups equipment by EquipmentGroup, sorted by group name.
func SummarizeByType(equipment []models.EquipmentStatus) []TypeSummary {
	byType := make(map[string][]models.EquipmentStatus)
	for _, e := range equipment {
		group := EquipmentGroup(e)
		byType[group] = append(byType[group], e)
	}

	types := keysOf(byType)
	sort.Strings(types)

	out := make([]TypeSummary, 0, len(types))
	for _, t := range types {
		out = append(out, TypeSummary{Type: t, Availability: Summarize(byType[t])})
	}
	return out
}

// EquipmentDashboard crosses the status table with the operating snapshots of
// the latest checklist.
func (s *ReportService) EquipmentDashboard(ctx context.Context) (*EquipmentDashboard, error) {
	equipment, err := s.allEquipment(ctx)
	if err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	dashboard := &EquipmentDashboard{}

	var latest models.ChecklistSubmission
	err = db.Order("data_criacao DESC, id DESC").First(&latest).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		dashboard.Types, _ = BuildEquipmentOverview(equipment, nil)
		return dashboard, nil
	case err != nil:
		return nil, fmt.Errorf("failed to load latest checklist: %w", err)
	}

	var snapshots []models.OperatingSnapshot
	if err := db.Where("checklist_id = ?", latest.ID).Find(&snapshots).Error; err != nil {
		return nil, fmt.Errorf("failed to load operating snapshots: %w", err)
	}

	dashboard.LatestSubmission = &latest
	dashboard.Types, dashboard.Unmatched = BuildEquipmentOverview(equipment, snapshots)
	return dashboard, nil
}

// BuildEquipmentOverview groups equipment by type and flags the units found
// among the snapshots. Names on both sides go through the same normalization,
// so "Torre 3" on the status table matches a "torre_3" checkbox. Canonical
// types come first, in their fixed order.
func BuildEquipmentOverview(equipment []models.EquipmentStatus, snapshots []models.OperatingSnapshot) ([]EquipmentOverview, []models.OperatingSnapshot) {
	operating := make(map[string]bool, len(snapshots))
	for _, snap := range snapshots {
		operating[utils.EquipmentMatchKey(snap.EquipmentName)] = true
	}

	matched := make(map[string]bool, len(equipment))
	byType := make(map[string]*EquipmentOverview)
	for _, e := range equipment {
		key := utils.EquipmentMatchKey(e.Name)
		label := EquipmentGroup(e)

		overview, ok := byType[label]
		if !ok {
			overview = &EquipmentOverview{Type: label}
			byType[label] = overview
		}

		unit := EquipmentUnit{EquipmentStatus: e, Operating: operating[key]}
		overview.Units++
		if unit.Operating {
			overview.Operating++
			matched[key] = true
		}
		overview.Equipment = append(overview.Equipment, unit)
	}

	out := make([]EquipmentOverview, 0, len(byType))
	for _, t := range orderedTypes(keysOf(byType)) {
		overview := byType[t]
		statuses := make([]models.EquipmentStatus, 0, len(overview.Equipment))
		for _, u := range overview.Equipment {
			statuses = append(statuses, u.EquipmentStatus)
		}
		overview.Availability = Summarize(statuses)
		out = append(out, *overview)
	}

	var unmatched []models.OperatingSnapshot
	for _, snap := range snapshots {
		if !matched[utils.EquipmentMatchKey(snap.EquipmentName)] {
			unmatched = append(unmatched, snap)
		}
	}
	return out, unmatched
}

// TypeDetail lists the equipment of one dashboard group with its latest
// history rows. Groups are resolved with EquipmentGroup, so every label the
// dashboards show has a detail page.
func (s *ReportService) TypeDetail(ctx context.Context, tipo string) (*TypeDetail, error) {
	tipo = strings.TrimSpace(tipo)

	all, err := s.allEquipment(ctx)
	if err != nil {
		return nil, err
	}

	var equipment []models.EquipmentStatus
	ids := make([]uint, 0)
	for _, e := range all {
		if EquipmentGroup(e) == tipo {
			equipment = append(equipment, e)
			ids = append(ids, e.ID)
		}
	}
	if len(equipment) == 0 {
		return nil, ErrEquipmentTypeNotFound
	}
	sort.SliceStable(equipment, func(i, j int) bool {
		return equipment[i].Name < equipment[j].Name
	})

	var history []models.StatusHistoryEntry
	err = s.db.WithContext(ctx).Preload("Equipment").
		Where("equipamento_id IN ?", ids).
		Order("data_modificacao DESC").
		Limit(typeHistoryLimit).
		Find(&history).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load history of type %q: %w", tipo, err)
	}

	return &TypeDetail{
		Type:         tipo,
		Equipment:    equipment,
		History:      history,
		Availability: Summarize(equipment),
	}, nil
}

// StatusDetail lists the equipment currently in one status. Legacy spellings
// of the status on stored rows are matched too.
func (s *ReportService) StatusDetail(ctx context.Context, raw string) (*StatusDetail, error) {
	status, ok := utils.ParseStatus(raw)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}

	equipment, err := s.allEquipment(ctx)
	if err != nil {
		return nil, err
	}

	detail := &StatusDetail{Status: status, Overall: Summarize(equipment)}
	ids := make([]uint, 0)
	for _, e := range equipment {
		if stored, ok := utils.CanonicalStatus(string(e.Status)); ok && stored == status {
			detail.Equipment = append(detail.Equipment, e)
			ids = append(ids, e.ID)
		}
	}
	if len(ids) == 0 {
		return detail, nil
	}

	err = s.db.WithContext(ctx).Preload("Equipment").
		Where("equipamento_id IN ?", ids).
		Order("data_modificacao DESC").
		Limit(statusHistoryLimit).
		Find(&detail.History).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load history for status %q: %w", status, err)
	}
	return detail, nil
}

// EquipmentGroup is the label a row is listed under on the dashboards: its
// stored type, else the type read from its normalized name, else "Sem Tipo".
func EquipmentGroup(e models.EquipmentStatus) string {
	if t := strings.TrimSpace(e.Type); t != "" {
		return t
	}
	if n, ok := utils.NormalizeEquipmentName(e.Name); ok {
		return n.Type
	}
	return untypedLabel
}

func orderedTypes(types []string) []string {
	return orderByRank(types, utils.EquipmentTypes())
}

// orderByRank sorts values by their position in ranked; values missing from
// ranked go last, alphabetically.
func orderByRank(values, ranked []string) []string {
	rank := make(map[string]int, len(ranked))
	for i, v := range ranked {
		rank[v] = i
	}
	sort.SliceStable(values, func(i, j int) bool {
		ri, iKnown := rank[values[i]]
		rj, jKnown := rank[values[j]]
		switch {
		case iKnown && jKnown:
			return ri < rj
		case iKnown != jKnown:
			return iKnown
		default:
			return values[i] < values[j]
		}
	})
	return values
}
