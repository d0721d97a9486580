package pgstore

import (
	"fmt"
	"time"

	"github.com/theirongolddev/wishjar/internal/model"

	json "github.com/goccy/go-json"
)

// SavingsRecordModel represents the savings_records table.
type SavingsRecordModel struct {
	UserKey        string    `gorm:"type:varchar(255);primaryKey"`
	Wishes         string    `gorm:"type:text;not null;default:'[]'"`
	CurrentBalance float64   `gorm:"not null;default:0"`
	DailySaving    float64   `gorm:"not null;default:0"`
	UpdatedAt      time.Time `gorm:"not null"`
}

// TableName returns the table name for SavingsRecordModel.
func (SavingsRecordModel) TableName() string {
	return "savings_records"
}

// ToRecord converts the row to a domain record.
func (m *SavingsRecordModel) ToRecord() (*model.SavingsRecord, error) {
	rec := &model.SavingsRecord{
		UserKey:        m.UserKey,
		Wishes:         []model.Wish{},
		CurrentBalance: m.CurrentBalance,
		DailySaving:    m.DailySaving,
		UpdatedAt:      m.UpdatedAt,
	}
	if m.Wishes != "" {
		if err := json.Unmarshal([]byte(m.Wishes), &rec.Wishes); err != nil {
			return nil, fmt.Errorf("decoding wishes: %w", err)
		}
	}
	return rec, nil
}

// FromRecord converts a domain record to a row.
func FromRecord(rec model.SavingsRecord) (*SavingsRecordModel, error) {
	wishes := rec.Wishes
	if wishes == nil {
		wishes = []model.Wish{}
	}
	data, err := json.Marshal(wishes)
	if err != nil {
		return nil, fmt.Errorf("encoding wishes: %w", err)
	}
	return &SavingsRecordModel{
		UserKey:        rec.UserKey,
		Wishes:         string(data),
		CurrentBalance: rec.CurrentBalance,
		DailySaving:    rec.DailySaving,
		UpdatedAt:      rec.UpdatedAt,
	}, nil
}
