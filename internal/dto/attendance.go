package dto

import "github.com/noah-isme/classdy-api/internal/models"

// AttendanceLogRequest upserts the log of one date.
type AttendanceLogRequest struct {
	Date          string           `json:"date" validate:"required,datetime=2006-01-02"`
	ArrivalTime   *string          `json:"arrivalTime" validate:"omitempty,len=5,datetime=15:04"`
	DepartureTime *string          `json:"departureTime" validate:"omitempty,len=5,datetime=15:04"`
	StatusTag     models.StatusTag `json:"statusTag" validate:"omitempty,oneof=Absent Holiday"`
}

// AttendanceListQuery filters the annotated log listing.
type AttendanceListQuery struct {
	From     string                  `form:"from" validate:"omitempty,datetime=2006-01-02"`
	To       string                  `form:"to" validate:"omitempty,datetime=2006-01-02"`
	Status   models.AttendanceStatus `form:"status"`
	Page     int                     `form:"page" validate:"omitempty,min=1"`
	PageSize int                     `form:"page_size" validate:"omitempty,min=1,max=366"`
}

// EvaluateQuery previews the status of a hypothetical log.
type EvaluateQuery struct {
	Date    string           `form:"date" validate:"required,datetime=2006-01-02"`
	Arrival string           `form:"arrival" validate:"omitempty,len=5,datetime=15:04"`
	Tag     models.StatusTag `form:"tag" validate:"omitempty,oneof=Absent Holiday"`
}

// EvaluateResponse is the derived status preview.
type EvaluateResponse struct {
	Date            string                  `json:"date"`
	Status          models.AttendanceStatus `json:"status"`
	StatusLabel     string                  `json:"statusLabel"`
	LatenessMinutes int                     `json:"latenessMinutes"`
	RequiredArrival string                  `json:"requiredArrival"`
}
