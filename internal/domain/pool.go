package domain

import "time"

// PoolStatus is a point-in-time view of the worker phones. The remote client
// substitutes the zero value when the service cannot be reached, so a zero
// status means "unknown" rather than an empty pool.
type PoolStatus struct {
	AvailablePhones int `json:"availablePhones"`
	BusyPhones      int `json:"busyPhones"`
	// AverageProcessingTime is in milliseconds.
	AverageProcessingTime int `json:"averageProcessingTime,omitempty"`
}

func (p PoolStatus) IsZero() bool {
	return p.AvailablePhones == 0 && p.BusyPhones == 0 && p.AverageProcessingTime == 0
}

func (p PoolStatus) TotalPhones() int {
	return p.AvailablePhones + p.BusyPhones
}

func (p PoolStatus) AverageProcessingDuration() time.Duration {
	return time.Duration(p.AverageProcessingTime) * time.Millisecond
}

type PoolSnapshot struct {
	Status     PoolStatus
	ObservedAt time.Time
}
