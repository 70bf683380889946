package schedule

// Entry is a single class in the weekly schedule.
type Entry struct {
	Time    string `json:"time"`
	Name    string `json:"name"`
	Trainer string `json:"trainer"`
}

// Document is the persisted weekly schedule keyed by lowercase english
// day names ("monday".."sunday").
type Document struct {
	Schedule    map[string][]Entry `json:"schedule"`
	LastUpdated string             `json:"last_updated"`
	Note        string             `json:"note,omitempty"`
}

// DayOrder fixes the rendering order of the week.
var DayOrder = []string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}
