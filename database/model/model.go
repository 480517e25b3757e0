// Package model defines the gorm models stored by the app.
package model

import "time"

type User struct {
	Id           int       `json:"id" gorm:"primaryKey;autoIncrement"`
	Username     string    `json:"username" gorm:"uniqueIndex;size:64;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Prediction is one stored prediction request and its result.
type Prediction struct {
	Id             int       `json:"id" gorm:"primaryKey;autoIncrement"`
	RecordId       string    `json:"recordId" gorm:"uniqueIndex;size:36;not null"`
	Username       string    `json:"username" gorm:"index:idx_predictions_user_created,priority:1;size:64;not null"`
	PresentPrice   float64   `json:"presentPrice"`
	KmsDriven      int64     `json:"kmsDriven"`
	Owner          int       `json:"owner"`
	Year           int       `json:"year"`
	FuelType       string    `json:"fuelType" gorm:"size:16"`
	SellerType     string    `json:"sellerType" gorm:"size:16"`
	Transmission   string    `json:"transmission" gorm:"size:16"`
	PredictedPrice float64   `json:"predictedPrice"`
	ModelVersion   string    `json:"modelVersion" gorm:"size:64"`
	CreatedAt      time.Time `json:"createdAt" gorm:"index:idx_predictions_user_created,priority:2"`
}
