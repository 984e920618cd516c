package journal

import (
	"time"

	"github.com/google/uuid"
	"github.com/yanun0323/errors"
	"github.com/yanun0323/logs"
	"gorm.io/gorm"

	"main/internal/order"
	"main/pkg/conn"
)

// Record is the persisted form of an order event. Decimals are stored as
// strings so no precision is lost in transit.
type Record struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement"`
	RunID        string    `gorm:"index;size:36"`
	OrderID      uint64    `gorm:"index"`
	Symbol       string    `gorm:"index;size:32"`
	EmittedAt    time.Time
	Status       string `gorm:"size:16"`
	Direction    string `gorm:"size:8"`
	FillPrice    string `gorm:"size:40"`
	FillQuantity string `gorm:"size:40"`
	Fee          string `gorm:"size:40"`
	Message      string `gorm:"size:64"`
	IsAssignment bool
}

func (Record) TableName() string {
	return "order_events"
}

// NewRecord converts an emitted event for persistence under a run ID.
func NewRecord(runID string, e order.Event) Record {
	return Record{
		RunID:        runID,
		OrderID:      e.OrderID,
		Symbol:       e.Symbol,
		EmittedAt:    e.Time,
		Status:       e.Status.String(),
		Direction:    e.Direction.String(),
		FillPrice:    e.FillPrice.String(),
		FillQuantity: e.FillQuantity.String(),
		Fee:          e.Fee.String(),
		Message:      e.Message,
		IsAssignment: e.IsAssignment,
	}
}

// Journal appends order events to PostgreSQL. Events are append-only;
// nothing here ever updates or deletes a record.
type Journal struct {
	db    *gorm.DB
	runID string
}

// New migrates the schema and starts a fresh journaling run.
func New(client *conn.Client) (*Journal, error) {
	if client == nil || client.DB() == nil {
		return nil, errors.New("journal: nil database client")
	}
	if err := client.DB().AutoMigrate(&Record{}); err != nil {
		return nil, errors.Wrap(err, "migrate order_events")
	}
	runID := uuid.NewString()
	logs.Infof("journal run started, run_id: %s", runID)
	return &Journal{db: client.DB(), runID: runID}, nil
}

// RunID identifies this process's journaling session.
func (j *Journal) RunID() string {
	return j.runID
}

// Append persists events preserving their emission order.
func (j *Journal) Append(events ...order.Event) error {
	if len(events) == 0 {
		return nil
	}
	records := make([]Record, 0, len(events))
	for _, e := range events {
		records = append(records, NewRecord(j.runID, e))
	}
	if err := j.db.Create(&records).Error; err != nil {
		return errors.Wrap(err, "append order events").With("count", len(records))
	}
	return nil
}
