package tracking

import "sync/atomic"

type counters struct {
	ticks            atomic.Uint64
	skipped          atomic.Uint64
	busy             atomic.Uint64
	submitted        atomic.Uint64
	sendErrors       atomic.Uint64
	applied          atomic.Uint64
	discarded        atomic.Uint64
	stale            atomic.Uint64
	resultErrors     atomic.Uint64
	noBody           atomic.Uint64
	missingLandmarks atomic.Uint64
	noModel          atomic.Uint64
	replaced         atomic.Uint64
	expired          atomic.Uint64
}

// Stats is a snapshot of the loop counters.
type Stats struct {
	State            string `json:"state"`
	Ticks            uint64 `json:"ticks"`
	Skipped          uint64 `json:"skipped"`
	Busy             uint64 `json:"busy"`
	Submitted        uint64 `json:"submitted"`
	SendErrors       uint64 `json:"send_errors"`
	Applied          uint64 `json:"applied"`
	Discarded        uint64 `json:"discarded"`
	Stale            uint64 `json:"stale"`
	ResultErrors     uint64 `json:"result_errors"`
	NoBody           uint64 `json:"no_body"`
	MissingLandmarks uint64 `json:"missing_landmarks"`
	NoModel          uint64 `json:"no_model"`
	Replaced         uint64 `json:"replaced"`
	Expired          uint64 `json:"expired"`
	InFlight         int    `json:"in_flight"`
}

// Stats returns the current counters.
func (l *Loop) Stats() Stats {
	return Stats{
		State:            l.State().String(),
		Ticks:            l.stats.ticks.Load(),
		Skipped:          l.stats.skipped.Load(),
		Busy:             l.stats.busy.Load(),
		Submitted:        l.stats.submitted.Load(),
		SendErrors:       l.stats.sendErrors.Load(),
		Applied:          l.stats.applied.Load(),
		Discarded:        l.stats.discarded.Load(),
		Stale:            l.stats.stale.Load(),
		ResultErrors:     l.stats.resultErrors.Load(),
		NoBody:           l.stats.noBody.Load(),
		MissingLandmarks: l.stats.missingLandmarks.Load(),
		NoModel:          l.stats.noModel.Load(),
		Replaced:         l.stats.replaced.Load(),
		Expired:          l.stats.expired.Load(),
		InFlight:         l.InFlight(),
	}
}
