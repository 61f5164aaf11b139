package simulation

// RaterScore is one rater's final score for a run, tagged with the
// criteria it judged so a report can be serialized without depending on
// the rating package's interface type.
type RaterScore struct {
	Criteria string  `json:"criteria"`
	Score    float64 `json:"score"`
}

// Report is everything a completed run produces: enough to persist, render,
// and compare against other runs.
type Report struct {
	RegionID  string       `json:"region_id"`
	Seed      int64        `json:"seed"`
	LastTick  int64        `json:"last_tick"`
	Scores    []RaterScore `json:"scores"`
	Delivered int          `json:"delivered"`
	Pending   int          `json:"pending"`
}
