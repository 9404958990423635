package domain

import "time"

// IngestStats holds statistics about one (topic, platform) ingest run.
type IngestStats struct {
	Platform       Platform
	TopicID        int64
	SearchTerm     string
	Pages          int
	Fetched        int
	Stored         int
	Duplicates     int
	Merged         int
	AuthorFailures int
	Published      int
	Duration       time.Duration
}

// AdapterOutcome is the result of one adapter invocation inside a scheduler run.
type AdapterOutcome struct {
	Platform Platform
	Stats    *IngestStats
	Skipped  bool
	Err      error
}

// TopicOutcome groups adapter outcomes for one topic.
type TopicOutcome struct {
	TopicID  int64
	Name     string
	Adapters []AdapterOutcome
}

// RunReport summarizes a scheduler run across topics.
type RunReport struct {
	StartedAt time.Time
	Duration  time.Duration
	Topics    []TopicOutcome
}

// Stored returns the number of records stored across all topics and adapters.
func (r *RunReport) Stored() int {
	total := 0
	for _, t := range r.Topics {
		for _, a := range t.Adapters {
			if a.Stats != nil {
				total += a.Stats.Stored
			}
		}
	}
	return total
}

// Failures returns the number of adapter invocations that ended in an error.
// Unavailable adapters are skipped, not failed.
func (r *RunReport) Failures() int {
	n := 0
	for _, t := range r.Topics {
		for _, a := range t.Adapters {
			if !a.Skipped && a.Err != nil {
				n++
			}
		}
	}
	return n
}
