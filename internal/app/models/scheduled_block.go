package models

// ScheduledBlock defines one fixed weekly class slot based on the
// 'scheduled_blocks' table. The whole table is replaced on each XLSX import.
type ScheduledBlock struct {
	ID        int64  `json:"id" db:"id"`
	Lab       string `json:"lab" db:"lab"`
	DayOfWeek int    `json:"dayOfWeek" db:"day_of_week"` // 1 = Monday ... 7 = Sunday
	StartTime string `json:"startTime" db:"start_time"`  // "08:00"
	EndTime   string `json:"endTime" db:"end_time"`      // "10:00"
	Course    string `json:"course" db:"course"`
	Professor string `json:"professor" db:"professor"`
}
