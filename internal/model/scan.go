package model

// ScanConfig is everything one pipeline run needs. It is not modified during
// a run.
type ScanConfig struct {
	Keywords           []string // used as the preset when a scan is started without one
	TechBoosters       []string
	Locations          []string
	RemoteOK           bool
	RecencyWindowDays  int
	BoardURLs          []string
	UseAggregator      bool
	AggregatorKey      string
	AggregatorLocation string
}

// FetchFailure records a fetch that returned an error instead of jobs.
type FetchFailure struct {
	Source     Source `json:"source"`
	Identifier string `json:"identifier"`
	Error      string `json:"error"`
}

// Diagnostics summarises where the jobs of one run came from.
type Diagnostics struct {
	Counts        map[Source]int `json:"counts"`       // raw jobs contributed per source
	Unrecognized  int            `json:"unrecognized"` // board URLs that matched no provider
	RawTotal      int            `json:"raw_total"`
	Unique        int            `json:"unique"` // after dedupe, before matching
	BoardsScanned int            `json:"boards_scanned"`
	Failures      []FetchFailure `json:"failures,omitempty"`
}

// NewDiagnostics returns diagnostics with a zero count for every provider.
func NewDiagnostics() Diagnostics {
	return Diagnostics{
		Counts: map[Source]int{
			SourceLever:      0,
			SourceGreenhouse: 0,
			SourceSerpAPI:    0,
		},
	}
}
