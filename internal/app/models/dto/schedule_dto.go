package dto

// ImportScheduleResponse reports how many fixed blocks an XLSX import loaded
type ImportScheduleResponse struct {
	Inserted int `json:"inserted"`
}
