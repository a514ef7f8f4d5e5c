package model

// TimeSlot is one free bookable interval in a doctor's day
type TimeSlot struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}
