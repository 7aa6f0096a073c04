package sched

import "time"

// Lane names one of a player's mutually exclusive task slots.
type Lane int

const (
	LaneWalk Lane = iota
	LaneNextStep
	LaneAction
	LanePush
	LanePotion
	laneCount
)

// Lanes holds at most one scheduled task per lane. Scheduling into a busy
// lane cancels the task already there.
type Lanes struct {
	ids [laneCount]TaskID
}

func (l *Lanes) Replace(s *Scheduler, lane Lane, delay time.Duration, fn func()) TaskID {
	l.Stop(s, lane)
	var id TaskID
	id = s.AddEvent(delay, func() {
		if l.ids[lane] == id {
			l.ids[lane] = 0
		}
		fn()
	})
	l.ids[lane] = id
	return id
}

func (l *Lanes) Stop(s *Scheduler, lane Lane) {
	if id := l.ids[lane]; id != 0 {
		s.StopEvent(id)
		l.ids[lane] = 0
	}
}

func (l *Lanes) StopAll(s *Scheduler) {
	for lane := range l.ids {
		l.Stop(s, Lane(lane))
	}
}

// ID returns the task scheduled in lane, or 0.
func (l *Lanes) ID(lane Lane) TaskID { return l.ids[lane] }
