package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"energy-center-checklist/config"
	"energy-center-checklist/models"
	"energy-center-checklist/utils"

	"gorm.io/gorm"
)

// ItemSubset selects which part of the catalog a submission covers.
type ItemSubset string

const (
	SubsetAll      ItemSubset = "all"
	SubsetMain     ItemSubset = "main"
	SubsetSupplier ItemSubset = "supplier"
)

// Catalog system tags.
const (
	SystemCompressedAir     = "Ar Comprimido"
	SystemCoolingWater      = "Água de Resfriamento"
	SystemChilledWater      = "Água Gelada"
	SystemHVACBodyShop      = "Climatizacao_f"
	SystemHVACAssembly      = "Climatizacao_m"
	SystemHVACCommunication = "Climatizacao_c"
)

var (
	mainPlantSystems    = []string{SystemCompressedAir, SystemCoolingWater, SystemChilledWater}
	supplierParkSystems = []string{SystemHVACBodyShop, SystemHVACAssembly, SystemHVACCommunication}

	systemLabels = map[string]string{
		SystemCompressedAir:     "Ar Comprimido",
		SystemCoolingWater:      "Água de Resfriamento",
		SystemChilledWater:      "Água Gelada",
		SystemHVACBodyShop:      "Climatização Funilaria",
		SystemHVACAssembly:      "Climatização Montagem",
		SystemHVACCommunication: "Climatização Communication",
	}
)

// Systems returns the system tags of the subset, or nil for the whole catalog.
func (s ItemSubset) Systems() []string {
	switch s {
	case SubsetMain:
		return append([]string(nil), mainPlantSystems...)
	case SubsetSupplier:
		return append([]string(nil), supplierParkSystems...)
	default:
		return nil
	}
}

// SystemLabel is the display name of a system tag.
func SystemLabel(system string) string {
	if label, ok := systemLabels[system]; ok {
		return label
	}
	return system
}

// Form field names of the checklist page.
const (
	fieldValuePrefix     = "valor_"
	fieldOKPrefix        = "ok_"
	fieldNOKPrefix       = "nok_"
	fieldCommentPrefix   = "coment_"
	fieldOperatingPrefix = "op_"
)

// SubmissionResult summarizes what one submission wrote.
type SubmissionResult struct {
	Submission    models.ChecklistSubmission
	RecordCount   int
	SnapshotCount int
}

// SystemGroup is a block of records (or templates) sharing a system tag.
type SystemGroup struct {
	System    string
	Label     string
	Records   []models.ItemRecord
	Templates []models.ItemTemplate
}

// ChecklistDetail is a submission with its children, grouped for display.
type ChecklistDetail struct {
	Submission models.ChecklistSubmission
	Groups     []SystemGroup
	Operations []models.OperatingSnapshot
}

// FailedCount is the number of items marked NOK.
func (d *ChecklistDetail) FailedCount() int {
	n := 0
	for _, g := range d.Groups {
		for _, r := range g.Records {
			if r.PassFlag != nil && !*r.PassFlag {
				n++
			}
		}
	}
	return n
}

type ChecklistService struct {
	db  *gorm.DB
	loc *time.Location
	now func() time.Time
}

func NewChecklistService(db *gorm.DB, loc *time.Location) *ChecklistService {
	if db == nil {
		db = config.DB
	}
	if loc == nil {
		loc = config.Cfg.FacilityLocation()
	}
	return &ChecklistService{db: db, loc: loc, now: time.Now}
}

// Templates returns the catalog entries of the subset in id order.
func (s *ChecklistService) Templates(ctx context.Context, subset ItemSubset) ([]models.ItemTemplate, error) {
	q := s.db.WithContext(ctx).Model(&models.ItemTemplate{})
	if systems := subset.Systems(); systems != nil {
		q = q.Where("sistema IN ?", systems)
	}

	var templates []models.ItemTemplate
	if err := q.Order("id ASC").Find(&templates).Error; err != nil {
		return nil, fmt.Errorf("failed to load checklist items: %w", err)
	}
	return templates, nil
}

// FormCatalog returns the whole catalog grouped by system for the form page.
func (s *ChecklistService) FormCatalog(ctx context.Context) ([]SystemGroup, error) {
	templates, err := s.Templates(ctx, SubsetAll)
	if err != nil {
		return nil, err
	}

	bySystem := make(map[string][]models.ItemTemplate)
	for _, tpl := range templates {
		bySystem[tpl.System] = append(bySystem[tpl.System], tpl)
	}

	systems := orderedSystems(keysOf(bySystem))
	groups := make([]SystemGroup, 0, len(systems))
	for _, system := range systems {
		groups = append(groups, SystemGroup{
			System:    system,
			Label:     SystemLabel(system),
			Templates: bySystem[system],
		})
	}
	return groups, nil
}

// Submit stores one checklist: the submission row, one record per catalog
// item of the subset and one snapshot per equipment ticked as operating.
// Everything is written in a single transaction.
func (s *ChecklistService) Submit(ctx context.Context, form url.Values, subset ItemSubset) (*SubmissionResult, error) {
	templates, err := s.Templates(ctx, subset)
	if err != nil {
		return nil, err
	}

	submission := newSubmission(form, s.now().In(s.loc))
	result := &SubmissionResult{}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&submission).Error; err != nil {
			return fmt.Errorf("failed to create checklist: %w", err)
		}

		records := BuildItemRecords(submission.ID, templates, form)
		if len(records) > 0 {
			if err := tx.Create(&records).Error; err != nil {
				return fmt.Errorf("failed to create checklist items: %w", err)
			}
		}

		snapshots := BuildOperatingSnapshots(submission, form)
		if len(snapshots) > 0 {
			if err := tx.Create(&snapshots).Error; err != nil {
				return fmt.Errorf("failed to create operating snapshots: %w", err)
			}
		}

		result.RecordCount = len(records)
		result.SnapshotCount = len(snapshots)
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.Submission = submission
	return result, nil
}

func newSubmission(form url.Values, createdAt time.Time) models.ChecklistSubmission {
	return models.ChecklistSubmission{
		Technician:          utils.CleanField(form.Get("tecnico"), 80),
		TechnicianSpecialty: utils.CleanField(form.Get("especialidade_tecnico"), 80),
		TeamLeader:          utils.CleanField(form.Get("team_leader"), 80),
		TeamLeaderSpecialty: utils.CleanField(form.Get("especialidade_team_leader"), 80),
		Shift:               utils.CleanField(form.Get("turno"), 40),
		ShiftType:           utils.CleanField(form.Get("tipo_turno"), 40),
		RawForm:             rawFormPayload(form),
		CreatedAt:           createdAt,
	}
}

func rawFormPayload(form url.Values) map[string]interface{} {
	payload := make(map[string]interface{}, len(form))
	for key, values := range form {
		switch len(values) {
		case 0:
			payload[key] = ""
		case 1:
			payload[key] = values[0]
		default:
			payload[key] = append([]string(nil), values...)
		}
	}
	return payload
}

// BuildItemRecords creates one record per template, in template order.
func BuildItemRecords(submissionID uint, templates []models.ItemTemplate, form url.Values) []models.ItemRecord {
	records := make([]models.ItemRecord, 0, len(templates))
	for _, tpl := range templates {
		id := fmt.Sprint(tpl.ID)
		_, okChecked := form[fieldOKPrefix+id]
		_, nokChecked := form[fieldNOKPrefix+id]

		record := models.NewItemRecord(submissionID, tpl)
		record.RecordedValue = utils.ParseOptionalFloat(form.Get(fieldValuePrefix + id))
		record.PassFlag = utils.ResolvePassFlag(okChecked, nokChecked)
		record.Comment = utils.OptionalString(form.Get(fieldCommentPrefix+id), 255)
		records = append(records, record)
	}
	return records
}

// BuildOperatingSnapshots reads the op_<label> checkboxes. Labels are
// normalized so they match the names on the equipment status table.
func BuildOperatingSnapshots(submission models.ChecklistSubmission, form url.Values) []models.OperatingSnapshot {
	keys := make([]string, 0)
	for key := range form {
		if strings.HasPrefix(key, fieldOperatingPrefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	seen := make(map[string]struct{}, len(keys))
	snapshots := make([]models.OperatingSnapshot, 0, len(keys))
	for _, key := range keys {
		name, _ := utils.NormalizeEquipmentName(strings.TrimPrefix(key, fieldOperatingPrefix))
		if name.Name == "" {
			continue
		}
		if _, dup := seen[name.Name]; dup {
			continue
		}
		seen[name.Name] = struct{}{}

		snapshots = append(snapshots, models.OperatingSnapshot{
			SubmissionID:  submission.ID,
			EquipmentName: utils.TruncateRunes(name.Name, 100),
			Type:          name.Type,
			Status:        models.OperatingLabel,
			Technician:    submission.Technician,
			Shift:         submission.Shift,
			RecordedAt:    submission.CreatedAt,
		})
	}
	return snapshots
}

// Get loads a submission with its records grouped by system.
func (s *ChecklistService) Get(ctx context.Context, id uint) (*ChecklistDetail, error) {
	db := s.db.WithContext(ctx)

	var submission models.ChecklistSubmission
	if err := db.First(&submission, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("failed to load checklist %d: %w", id, err)
	}

	var records []models.ItemRecord
	if err := db.Where("checklist_id = ?", id).Order("id ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to load checklist items: %w", err)
	}

	var operations []models.OperatingSnapshot
	if err := db.Where("checklist_id = ?", id).Order("nome_equipamento ASC").Find(&operations).Error; err != nil {
		return nil, fmt.Errorf("failed to load operating snapshots: %w", err)
	}

	return &ChecklistDetail{
		Submission: submission,
		Groups:     GroupRecords(records),
		Operations: operations,
	}, nil
}

// GroupRecords splits records by system, known systems first in catalog order.
func GroupRecords(records []models.ItemRecord) []SystemGroup {
	bySystem := make(map[string][]models.ItemRecord)
	for _, r := range records {
		bySystem[r.System] = append(bySystem[r.System], r)
	}

	systems := orderedSystems(keysOf(bySystem))
	groups := make([]SystemGroup, 0, len(systems))
	for _, system := range systems {
		groups = append(groups, SystemGroup{
			System:  system,
			Label:   SystemLabel(system),
			Records: bySystem[system],
		})
	}
	return groups
}

// List returns submissions newest first.
func (s *ChecklistService) List(ctx context.Context, page, pageSize int) ([]models.ChecklistSubmission, Pagination, error) {
	page, pageSize = normalizePage(page, pageSize, config.Cfg.HistoryPageSize)
	base := s.db.WithContext(ctx).Model(&models.ChecklistSubmission{}).Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, Pagination{}, fmt.Errorf("failed to count checklists: %w", err)
	}

	var submissions []models.ChecklistSubmission
	err := base.Order("data_criacao DESC, id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&submissions).Error
	if err != nil {
		return nil, Pagination{}, fmt.Errorf("failed to list checklists: %w", err)
	}

	return submissions, NewPagination(page, pageSize, total), nil
}

func orderedSystems(systems []string) []string {
	return orderByRank(systems, append(append([]string(nil), mainPlantSystems...), supplierParkSystems...))
}

func keysOf[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
