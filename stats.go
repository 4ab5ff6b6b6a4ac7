package goom

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/glk1001/visualization.goom--sub005/effects"
)

// Stats are the coordinator's timing statistics.
type Stats struct {
	// Passes is the number of completed passes that were consumed.
	Passes uint64
	// Resets is the number of restarts caused by a settings or size change.
	Resets uint64
	// LastPassTime is the compute time of the most recent pass.
	LastPassTime time.Duration

	totalPassTime     time.Duration
	totalBetweenReset time.Duration
}

func (s *Stats) recordPass(d time.Duration) {
	s.Passes++
	s.LastPassTime = d
	s.totalPassTime += d
}

func (s *Stats) recordReset(sinceLast time.Duration) {
	s.Resets++
	s.totalBetweenReset += sinceLast
}

// AveragePassTime returns the mean compute time per pass.
func (s Stats) AveragePassTime() time.Duration {
	if s.Passes == 0 {
		return 0
	}
	return s.totalPassTime / time.Duration(s.Passes)
}

// AverageTimeBetweenResets returns the mean time between restarts.
func (s Stats) AverageTimeBetweenResets() time.Duration {
	if s.Resets == 0 {
		return 0
	}
	return s.totalBetweenReset / time.Duration(s.Resets)
}

var statsPrinter = message.NewPrinter(language.English)

// NameValues returns the statistics as diagnostics under group.
func (s Stats) NameValues(group string) []effects.NameValue {
	return []effects.NameValue{
		effects.Pair(group, "numPasses", statsPrinter.Sprintf("%d", s.Passes)),
		effects.Pair(group, "numResets", statsPrinter.Sprintf("%d", s.Resets)),
		effects.Pair(group, "lastPassTime", s.LastPassTime.String()),
		effects.Pair(group, "avgPassTime", s.AveragePassTime().String()),
		effects.Pair(group, "avgTimeBetweenResets", s.AverageTimeBetweenResets().String()),
	}
}
