package sync

// PushCounts reports one outbound pass. Failures are counted, never raised;
// a single bad record must not stall the rest.
type PushCounts struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Deleted int `json:"deleted"`
	Failed  int `json:"failed"`
}

func (p *PushCounts) add(other PushCounts) {
	p.Created += other.Created
	p.Updated += other.Updated
	p.Deleted += other.Deleted
	p.Failed += other.Failed
}

// Summary is the result of one sync pass. It is always produced,
// even when individual records failed; only missing connections and dead
// credentials abort a sync outright.
type Summary struct {
	Provider   string     `json:"provider"`
	Push       PushCounts `json:"push"`
	Pulled     int        `json:"pulled"`
	Merged     int        `json:"merged"`
	PullFailed int        `json:"pull_failed"` // buckets that could not be listed
}
