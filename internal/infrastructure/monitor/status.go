package monitor

import "time"

type Status struct {
	PostgreSQL   bool      `json:"postgresql"`
	Redis        bool      `json:"redis"`
	Throttle     bool      `json:"throttle"`
	ThrottleSize int       `json:"throttle_size"`
	LastCheck    time.Time `json:"last_check"`
}
