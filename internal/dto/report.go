package dto

import "github.com/noah-isme/classdy-api/internal/models"

// ReportRequest captures POST /reports payload.
type ReportRequest struct {
	Type   models.ReportType      `json:"type" validate:"required,oneof=attendance lateness summary"`
	Format models.ReportFormat    `json:"format" validate:"required,oneof=csv pdf"`
	Period models.AnalyticsPeriod `json:"period" validate:"omitempty,oneof=all week month custom"`
	Start  string                 `json:"start,omitempty" validate:"omitempty,datetime=2006-01-02"`
	End    string                 `json:"end,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// ReportJobResponse is returned after enqueueing a report.
type ReportJobResponse struct {
	ID       string              `json:"id"`
	Status   models.ReportStatus `json:"status"`
	Progress int                 `json:"progress"`
}

// ReportStatusResponse exposes job progress metadata.
type ReportStatusResponse struct {
	ID        string              `json:"id"`
	Type      models.ReportType   `json:"type"`
	Status    models.ReportStatus `json:"status"`
	Progress  int                 `json:"progress"`
	ResultURL *string             `json:"resultUrl,omitempty"`
	Error     *string             `json:"error,omitempty"`
}
