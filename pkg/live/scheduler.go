package live

import (
	"sync"

	"github.com/SmileAfterBurn/social-map-care/pkg/audio"
)

// scheduler serializes model speech on the player's virtual timeline: each
// clip starts at max(cursor, playhead) so clips never overlap and never
// leave gaps, and every scheduled handle is tracked so barge-in can stop
// them all at once.
type scheduler struct {
	player Player

	mu      sync.Mutex
	cursor  float64
	handles map[int]Handle
	serial  int
}

func newScheduler(player Player) *scheduler {
	return &scheduler{
		player:  player,
		handles: make(map[int]Handle),
	}
}

func (s *scheduler) schedule(buf *audio.Buffer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := s.cursor
	if now := s.player.Now(); now > start {
		start = now
	}
	handle, err := s.player.Play(buf, start)
	if err != nil {
		return err
	}
	s.serial++
	s.handles[s.serial] = handle
	s.cursor = start + buf.Duration()
	return nil
}

// interrupt stops every tracked clip and resets the timeline to zero, so
// the next clip plays immediately instead of queuing behind stale speech.
func (s *scheduler) interrupt() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, handle := range s.handles {
		handle.Stop()
		delete(s.handles, id)
	}
	s.cursor = 0
}
