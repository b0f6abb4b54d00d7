package journal

import (
	"errors"
	"math/rand/v2"
	"sort"
	"time"

	"github.com/foxseedlab/ahirun/internal/codec"
)

// ErrNoHints reports that a hint was needed but the user has none.
var ErrNoHints = errors.New("user has no hints configured")

// IsNewDay reports whether no activity has been recorded on now's
// calendar date yet. A zero lastActive always counts as a new day.
func IsNewDay(lastActive, now time.Time) bool {
	return !codec.SameDay(lastActive, now)
}

// PickHint selects today's hint uniformly at random. Concurrent requests
// from the same user may race and pick different hints; the last write
// wins and the drift is accepted.
func PickHint(hints map[string]string) (string, string, error) {
	if len(hints) == 0 {
		return "", "", ErrNoHints
	}
	ids := make([]string, 0, len(hints))
	for id := range hints {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	id := ids[rand.IntN(len(ids))]
	return id, hints[id], nil
}
