package monitor

import "time"

type Status struct {
	Database  bool      `json:"database"`
	Driver    string    `json:"driver"`
	LastCheck time.Time `json:"last_check"`
}
