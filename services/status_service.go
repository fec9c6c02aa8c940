package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"energy-center-checklist/config"
	"energy-center-checklist/models"
	"energy-center-checklist/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AllTypes is the pseudo type that disables the type filter.
const AllTypes = "Todos"

// StatusAlerter is told about transitions into NOK once they are committed.
type StatusAlerter interface {
	NotifyNOK(ctx context.Context, equipment models.EquipmentStatus, entry models.StatusHistoryEntry) error
}

// StatusUpdate is one submission of the status form.
type StatusUpdate struct {
	EquipmentID uint
	Status      string
	Observation string
	Technician  string
}

// StatusChange is the outcome of a committed update.
type StatusChange struct {
	Equipment models.EquipmentStatus
	Entry     models.StatusHistoryEntry
}

type StatusService struct {
	db      *gorm.DB
	loc     *time.Location
	now     func() time.Time
	alerter StatusAlerter
}

func NewStatusService(db *gorm.DB, loc *time.Location, alerter StatusAlerter) *StatusService {
	if db == nil {
		db = config.DB
	}
	if loc == nil {
		loc = config.Cfg.FacilityLocation()
	}
	return &StatusService{db: db, loc: loc, now: time.Now, alerter: alerter}
}

// Update appends a history row holding the current status and then overwrites
// the equipment row. The row is locked for the duration of the transaction;
// concurrent updates are applied in lock order, last writer wins. The
// equipment is looked up before the status is checked, so an unknown id
// reports ErrEquipmentNotFound whatever status was posted.
func (s *StatusService) Update(ctx context.Context, in StatusUpdate) (*StatusChange, error) {
	status, valid := utils.ParseStatus(in.Status)
	now := s.now().In(s.loc)
	change := &StatusChange{}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var equipment models.EquipmentStatus
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&equipment, in.EquipmentID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEquipmentNotFound
			}
			return fmt.Errorf("failed to load equipment %d: %w", in.EquipmentID, err)
		}
		if !valid {
			return fmt.Errorf("%w: %q", ErrInvalidStatus, in.Status)
		}

		entry := models.StatusHistoryEntry{
			EquipmentID:    equipment.ID,
			PreviousStatus: equipment.Status,
			NewStatus:      status,
			Observation:    utils.CleanField(in.Observation, 255),
			Technician:     utils.CleanField(in.Technician, 80),
			ChangedAt:      now,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return fmt.Errorf("failed to record status history: %w", err)
		}

		err = tx.Model(&equipment).Updates(map[string]interface{}{
			"status":           status,
			"observacao":       entry.Observation,
			"tecnico":          entry.Technician,
			"data_atualizacao": now,
		}).Error
		if err != nil {
			return fmt.Errorf("failed to update equipment %d: %w", equipment.ID, err)
		}

		equipment.Status = status
		equipment.Observation = entry.Observation
		equipment.Technician = entry.Technician
		equipment.LastUpdate = now

		change.Equipment = equipment
		change.Entry = entry
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.alerter != nil && status == models.StatusNOK && change.Entry.PreviousStatus != models.StatusNOK {
		if err := s.alerter.NotifyNOK(persistentContext(ctx), change.Equipment, change.Entry); err != nil {
			config.Logger.Warn("Failed to send NOK alert",
				zap.Uint("equipment_id", change.Equipment.ID),
				zap.String("equipment", change.Equipment.Name),
				zap.Error(err),
			)
		}
	}

	return change, nil
}

// ListByType returns equipment ordered by name. An empty type or AllTypes
// returns everything.
func (s *StatusService) ListByType(ctx context.Context, tipo string) ([]models.EquipmentStatus, error) {
	q := s.db.WithContext(ctx).Model(&models.EquipmentStatus{})
	if tipo = strings.TrimSpace(tipo); tipo != "" && tipo != AllTypes {
		q = q.Where("tipo = ?", tipo)
	}

	var equipment []models.EquipmentStatus
	if err := q.Order("nome_equipamento ASC").Find(&equipment).Error; err != nil {
		return nil, fmt.Errorf("failed to list equipment: %w", err)
	}
	return equipment, nil
}

// Types returns the distinct equipment types, sorted.
func (s *StatusService) Types(ctx context.Context) ([]string, error) {
	var types []string
	err := s.db.WithContext(ctx).Model(&models.EquipmentStatus{}).
		Where("tipo IS NOT NULL AND tipo <> ''").
		Distinct("tipo").
		Order("tipo ASC").
		Pluck("tipo", &types).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list equipment types: %w", err)
	}
	return types, nil
}

// Register creates the equipment row if its canonical name is not known yet.
// The name is normalized first so manual rows and checklist snapshots share
// one spelling.
func (s *StatusService) Register(ctx context.Context, rawName, tipo string) (*models.EquipmentStatus, bool, error) {
	name, _ := utils.NormalizeEquipmentName(rawName)
	if name.Name == "" {
		return nil, false, fmt.Errorf("equipment name is required")
	}
	if tipo = strings.TrimSpace(tipo); tipo == "" {
		tipo = name.Type
	}

	db := s.db.WithContext(ctx)

	var existing models.EquipmentStatus
	err := db.Where("nome_equipamento = ?", name.Name).First(&existing).Error
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("failed to look up equipment %q: %w", name.Name, err)
	}

	equipment := models.EquipmentStatus{
		Name:       name.Name,
		Type:       tipo,
		Status:     models.StatusOK,
		LastUpdate: s.now().In(s.loc),
	}
	if err := db.Create(&equipment).Error; err != nil {
		return nil, false, fmt.Errorf("failed to register equipment %q: %w", name.Name, err)
	}
	return &equipment, true, nil
}
