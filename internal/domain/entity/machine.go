package entity

import "time"

// DataFile describes one imported telemetry source file for a machine.
type DataFile struct {
	Filename string    // base name, e.g. january_2025.csv
	Size     int64     // bytes
	Modified time.Time // mtime of the source file
	Month    string    // lowercase month parsed from the filename, if any
	Year     int       // year parsed from the filename, 0 if unknown
	Records  int       // rows imported from this file
}

// ShiftRecord is one shift-level telemetry row for a machine.
// Field set mirrors the hourly OEE report schema.
type ShiftRecord struct {
	Machine      string
	Date         time.Time
	DeviceType   string
	ShiftName    string // SH1, SH2
	StartHour    int
	EndHour      int
	AvgOEE       float64
	AvgAvail     float64
	AvgPerf      float64
	AvgQuality   float64
	AvgCurrent   float64
	PartCount    float64 // parts produced
	PlannedParts float64
	PartReject   float64
	TotalEnergy  float64 // KwH
	EnergyCost   float64
}

// MonthlyStats aggregates one calendar month of records.
type MonthlyStats struct {
	Period      string  // YYYY-MM
	PartCount   float64 // sum
	AvgOEE      float64 // mean
	TotalEnergy float64 // sum
	EnergyCost  float64 // sum
}

// Summary holds the aggregate statistics a response is generated from.
type Summary struct {
	TotalRecords       int
	TotalPartsProduced float64
	TotalPartsRejected float64
	AverageOEE         float64
	TotalEnergy        float64
	TotalCost          float64
	QualityRate        float64 // percent
	DateStart          time.Time
	DateEnd            time.Time
	Days               int
	MonthlyBreakdown   []MonthlyStats
}
