package models

import "time"

type Dataset struct {
	ID          string
	Filename    string
	Path        string
	Rows        int
	Columns     int
	ColumnNames []string
	HasAgeGroup bool
	UploadedAt  time.Time
}

type AnalysisRecord struct {
	ID            string
	DatasetID     string
	ProtectedAttr string
	TotalMetrics  int
	Fair          int
	Warning       int
	Violation     int
	Overall       string
	LatencyMS     int
	CreatedAt     time.Time
}
