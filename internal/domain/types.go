package domain

// ID is used across domain entities.
type ID int64

// ResourceType selects which side of a booking an availability lookup is for.
type ResourceType string

const (
	ResourceVehicle ResourceType = "vehicle"
	ResourceDriver  ResourceType = "driver"
)

// DateRange is an inclusive [Start, End] window of YYYY-MM-DD dates.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Contains reports whether date (YYYY-MM-DD) falls inside the range.
// Empty bounds are open ended.
func (r DateRange) Contains(date string) bool {
	if r.Start != "" && date < r.Start {
		return false
	}
	if r.End != "" && date > r.End {
		return false
	}
	return true
}

// Pagination carries paging params and totals.
type Pagination struct {
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
	Total    int `json:"total,omitempty"`
}

// RequestContext carries authenticated user info when available.
type RequestContext struct {
	UserID ID     `json:"userId"`
	Role   string `json:"role"`
}
