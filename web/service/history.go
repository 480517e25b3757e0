package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/resalelab/carprice/database"
	"github.com/resalelab/carprice/database/model"
)

// HistoryService stores and lists prediction records.
type HistoryService struct {
	// now is replaced in tests.
	now func() time.Time
}

func (s *HistoryService) clock() time.Time {
	if s.now != nil {
		return s.now().UTC()
	}
	return time.Now().UTC()
}

// NewRecord builds the record of a successful prediction made by username.
func NewRecord(username string, o Outcome) *model.Prediction {
	return &model.Prediction{
		Username:       username,
		PresentPrice:   o.Car.PresentPrice,
		KmsDriven:      o.Car.KmsDriven,
		Owner:          o.Car.Owner,
		Year:           o.Car.Year,
		FuelType:       string(o.Car.FuelType),
		SellerType:     string(o.Car.SellerType),
		Transmission:   string(o.Car.Transmission),
		PredictedPrice: o.Price,
		ModelVersion:   o.ModelVersion,
	}
}

// Append assigns the record id and creation time, then inserts record.
func (s *HistoryService) Append(record *model.Prediction) error {
	if record.Username == "" {
		return fmt.Errorf("%w: record without username", ErrStorage)
	}
	record.Id = 0
	record.RecordId = uuid.NewString()
	record.CreatedAt = s.clock()

	db := database.GetDB()
	if err := db.Create(record).Error; err != nil {
		return fmt.Errorf("%w: append prediction: %v", ErrStorage, err)
	}
	return nil
}

// ListFor returns the records of username, newest first.
func (s *HistoryService) ListFor(username string) ([]model.Prediction, error) {
	db := database.GetDB()
	records := make([]model.Prediction, 0)
	err := db.Model(model.Prediction{}).
		Where("username = ?", username).
		Order("created_at DESC").
		Order("id DESC").
		Find(&records).
		Error
	if err != nil {
		return nil, fmt.Errorf("%w: list predictions: %v", ErrStorage, err)
	}
	return records, nil
}

func (s *HistoryService) CountFor(username string) (int64, error) {
	var count int64
	err := database.GetDB().Model(model.Prediction{}).
		Where("username = ?", username).
		Count(&count).
		Error
	if err != nil {
		return 0, fmt.Errorf("%w: count predictions: %v", ErrStorage, err)
	}
	return count, nil
}
