package models

import (
	"time"

	"gorm.io/datatypes"
)

// ChecklistSubmission is one completed inspection form. It is written once and
// only grows through its child rows afterwards.
type ChecklistSubmission struct {
	ID                  uint              `gorm:"primaryKey;column:id" json:"id"`
	Technician          string            `gorm:"column:tecnico;size:80" json:"tecnico"`
	TechnicianSpecialty string            `gorm:"column:especialidade_tecnico;size:80" json:"especialidade_tecnico"`
	TeamLeader          string            `gorm:"column:team_leader;size:80" json:"team_leader"`
	TeamLeaderSpecialty string            `gorm:"column:especialidade_team_leader;size:80" json:"especialidade_team_leader"`
	Shift               string            `gorm:"column:turno;size:40" json:"turno"`
	ShiftType           string            `gorm:"column:tipo_turno;size:40" json:"tipo_turno"`
	RawForm             datatypes.JSONMap `gorm:"column:formulario;type:json" json:"formulario,omitempty"`
	CreatedAt           time.Time         `gorm:"column:data_criacao;index" json:"data_criacao"`

	// Relations
	Records    []ItemRecord        `gorm:"foreignKey:SubmissionID;constraint:OnDelete:CASCADE" json:"registros,omitempty"`
	Operations []OperatingSnapshot `gorm:"foreignKey:SubmissionID;constraint:OnDelete:CASCADE" json:"status_operacoes,omitempty"`
}

func (ChecklistSubmission) TableName() string {
	return "checklist"
}

// ItemTemplate is a catalog entry for one inspection point. Rows are seeded
// out of band and read-only at request time.
type ItemTemplate struct {
	ID          uint     `gorm:"primaryKey;column:id" json:"id"`
	System      string   `gorm:"column:sistema;size:80;index" json:"sistema"`
	Description string   `gorm:"column:descricao;size:120" json:"descricao"`
	Unit        string   `gorm:"column:unidade;size:10" json:"unidade"`
	MinValue    *float64 `gorm:"column:valor_min" json:"valor_min"`
	MaxValue    *float64 `gorm:"column:valor_max" json:"valor_max"`
}

func (ItemTemplate) TableName() string {
	return "itens_checklist"
}

// ItemRecord is a filled-in template item. The descriptive fields are copied
// from the template at submission time and never follow later catalog edits.
type ItemRecord struct {
	ID            uint     `gorm:"primaryKey;column:id" json:"id"`
	SubmissionID  uint     `gorm:"column:checklist_id;not null;index" json:"checklist_id"`
	System        string   `gorm:"column:sistema;size:80" json:"sistema"`
	Description   string   `gorm:"column:descricao;size:120" json:"descricao"`
	Unit          string   `gorm:"column:unidade;size:10" json:"unidade"`
	MinValue      *float64 `gorm:"column:valor_min" json:"valor_min"`
	MaxValue      *float64 `gorm:"column:valor_max" json:"valor_max"`
	RecordedValue *float64 `gorm:"column:valor_registrado" json:"valor_registrado"`
	PassFlag      *bool    `gorm:"column:status_ok" json:"status_ok"`
	Comment       *string  `gorm:"column:comentario;size:255" json:"comentario"`
}

func (ItemRecord) TableName() string {
	return "itens_registro"
}

// NewItemRecord snapshots the template into a record for the given submission.
func NewItemRecord(submissionID uint, tpl ItemTemplate) ItemRecord {
	return ItemRecord{
		SubmissionID: submissionID,
		System:       tpl.System,
		Description:  tpl.Description,
		Unit:         tpl.Unit,
		MinValue:     copyFloat(tpl.MinValue),
		MaxValue:     copyFloat(tpl.MaxValue),
	}
}

// OutOfRange reports whether the recorded value falls outside [min, max].
func (r ItemRecord) OutOfRange() bool {
	if r.RecordedValue == nil {
		return false
	}
	v := *r.RecordedValue
	if r.MinValue != nil && v < *r.MinValue {
		return true
	}
	if r.MaxValue != nil && v > *r.MaxValue {
		return true
	}
	return false
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
