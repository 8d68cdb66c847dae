package model

// Fact is one recorded activity interval. Times are store stamps, see
// timecalc.Stamp.
type Fact struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Description *string  `json:"description"`
	Tags        []string `json:"tags"`
	StartTime   int64    `json:"start_time"`
	EndTime     *int64   `json:"end_time"`
	ExternalID  string   `json:"external_id,omitempty"`
	Source      string   `json:"source"`
}

// Activity is a distinct name@category pair.
type Activity struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

func (a Activity) String() string {
	return a.Name + "@" + a.Category
}

// DayFile is the top-level structure stored in each daily JSON file.
type DayFile struct {
	Date  string `json:"date"`
	Facts []Fact `json:"facts"`
}
