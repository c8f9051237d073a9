package models

// LogsRequest bounds the recent-log window served by the dashboard.
type LogsRequest struct {
	N int `query:"n" json:"n" default:"50" validate:"gte=1,lte=200"`
}
