package voice

import "sync"

// Clock reports the current position of the playback clock in seconds.
type Clock interface {
	Now() float64
}

// Scheduler assigns start times to inbound speech frames so consecutive
// frames play back to back with no gaps or overlaps: a frame starts at the
// later of the playback clock and the previously scheduled end, and the
// cursor then advances by the frame's duration.
//
// The cursor and the active-frame set are guarded together: an
// interruption must stop every scheduled frame and reset the cursor as one
// step. Only the session's inbound-message loop calls Schedule and Reset
// (single-writer discipline); Done may arrive from the playback side.
type Scheduler struct {
	clock Clock

	mu     sync.Mutex
	cursor float64
	nextID int
	active map[int]struct{}
}

// NewScheduler creates a Scheduler against the given playback clock.
func NewScheduler(clock Clock) *Scheduler {
	return &Scheduler{
		clock:  clock,
		active: make(map[int]struct{}),
	}
}

// Schedule reserves a playback slot for a frame of the given duration,
// returning the frame's handle id and start time.
func (s *Scheduler) Schedule(duration float64) (id int, startAt float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	startAt = s.cursor
	if now := s.clock.Now(); now > startAt {
		startAt = now
	}
	s.cursor = startAt + duration

	id = s.nextID
	s.nextID++
	s.active[id] = struct{}{}
	return id, startAt
}

// Done releases a frame handle once its playback finished.
func (s *Scheduler) Done(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.active, id)
}

// Reset stops everything: it returns the ids of all still-active frames,
// clears the set, and rewinds the cursor to zero so the next frame starts
// fresh.
func (s *Scheduler) Reset() []int {
	s.mu.Lock()
	defer s.mu.Unlock()

	stopped := make([]int, 0, len(s.active))
	for id := range s.active {
		stopped = append(stopped, id)
	}
	s.active = make(map[int]struct{})
	s.cursor = 0
	return stopped
}

// Cursor returns the next scheduled start position.
func (s *Scheduler) Cursor() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor
}

// ActiveCount returns how many frames are scheduled or playing.
func (s *Scheduler) ActiveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.active)
}
