package models

import "time"

// Status is the operational state of a piece of equipment.
type Status string

const (
	StatusOK          Status = "OK"
	StatusNOK         Status = "NOK"
	StatusMaintenance Status = "Manutenção"
)

// Statuses lists the closed set in display order.
func Statuses() []Status {
	return []Status{StatusOK, StatusNOK, StatusMaintenance}
}

func (s Status) String() string {
	return string(s)
}

// Valid reports whether s is one of the canonical values.
func (s Status) Valid() bool {
	switch s {
	case StatusOK, StatusNOK, StatusMaintenance:
		return true
	}
	return false
}

// OperatingLabel is the status written on operating snapshots.
const OperatingLabel = "Operando"

// EquipmentStatus is the current state of one named unit. Names are unique and
// stored in the canonical "Type NN" form.
type EquipmentStatus struct {
	ID          uint      `gorm:"primaryKey;column:id" json:"id"`
	Name        string    `gorm:"column:nome_equipamento;size:100;uniqueIndex" json:"nome_equipamento"`
	Type        string    `gorm:"column:tipo;size:50;index" json:"tipo"`
	Status      Status    `gorm:"column:status;size:20;default:OK" json:"status"`
	Observation string    `gorm:"column:observacao;size:255" json:"observacao"`
	Technician  string    `gorm:"column:tecnico;size:80" json:"tecnico"`
	LastUpdate  time.Time `gorm:"column:data_atualizacao" json:"data_atualizacao"`

	// Relations
	History []StatusHistoryEntry `gorm:"foreignKey:EquipmentID" json:"historicos,omitempty"`
}

func (EquipmentStatus) TableName() string {
	return "status_equipamentos"
}

// StatusHistoryEntry is the append-only audit row written on every update.
type StatusHistoryEntry struct {
	ID             uint      `gorm:"primaryKey;column:id" json:"id"`
	EquipmentID    uint      `gorm:"column:equipamento_id;not null;index" json:"equipamento_id"`
	PreviousStatus Status    `gorm:"column:status_anterior;size:20" json:"status_anterior"`
	NewStatus      Status    `gorm:"column:status_novo;size:20" json:"status_novo"`
	Observation    string    `gorm:"column:observacao;size:255" json:"observacao"`
	Technician     string    `gorm:"column:tecnico;size:80;index" json:"tecnico"`
	ChangedAt      time.Time `gorm:"column:data_modificacao;index" json:"data_modificacao"`

	Equipment *EquipmentStatus `gorm:"foreignKey:EquipmentID" json:"equipamento,omitempty"`
}

func (StatusHistoryEntry) TableName() string {
	return "historico_status"
}

// OperatingSnapshot records that a unit was running when a checklist was filled in.
type OperatingSnapshot struct {
	ID            uint      `gorm:"primaryKey;column:id" json:"id"`
	SubmissionID  uint      `gorm:"column:checklist_id;not null;index" json:"checklist_id"`
	EquipmentName string    `gorm:"column:nome_equipamento;size:100;index" json:"nome_equipamento"`
	Type          string    `gorm:"column:tipo;size:50" json:"tipo"`
	Status        string    `gorm:"column:status;size:20" json:"status"`
	Technician    string    `gorm:"column:tecnico;size:80" json:"tecnico"`
	Shift         string    `gorm:"column:turno;size:40" json:"turno"`
	RecordedAt    time.Time `gorm:"column:data_registro" json:"data_registro"`
}

func (OperatingSnapshot) TableName() string {
	return "status_operacao_checklist"
}

// All returns every model managed by the schema migration.
func All() []interface{} {
	return []interface{}{
		&ChecklistSubmission{},
		&ItemTemplate{},
		&ItemRecord{},
		&EquipmentStatus{},
		&StatusHistoryEntry{},
		&OperatingSnapshot{},
	}
}
