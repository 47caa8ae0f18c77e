package dto

// HolidayRequest names the holiday stored on a date.
type HolidayRequest struct {
	Name string `json:"name" validate:"required,max=120"`
}

// HolidayEntry is one element of a full holiday calendar replacement.
type HolidayEntry struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
	Name string `json:"name" validate:"required,max=120"`
}

// HolidayReplaceRequest replaces the whole calendar.
type HolidayReplaceRequest struct {
	Holidays []HolidayEntry `json:"holidays" validate:"dive"`
}
