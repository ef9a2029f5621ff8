package models

// RecentActivityCapacity is the number of articles kept in the recent list
const RecentActivityCapacity = 6

// RecentActivity lists recently commented article ids, most recent first
type RecentActivity struct {
	RecentComments []string `json:"recent_comments" toml:"recent_comments"`
}

// CompactedLog maps an access log line to its number of occurrences
type CompactedLog struct {
	Entries map[string]int64 `json:"entries" toml:"entries"`
}

// StatEntry is one row of the statistics view
type StatEntry struct {
	Line  string `json:"line"`
	Count int64  `json:"count"`
}
