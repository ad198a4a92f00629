package obj

// EventType identifies what happened during a tick.
type EventType string

const (
	EventShot          EventType = "shot"
	EventEnemyHit      EventType = "enemy_hit"
	EventPlayerHit     EventType = "player_hit"
	EventEnemyKilled   EventType = "enemy_killed"
	EventCollected     EventType = "collected"
	EventLevelFinished EventType = "level_finished"
	EventPlayerDied    EventType = "player_died"
)

// Event is pushed by the simulation for audio and HUD collaborators.
type Event struct {
	Type   EventType
	Source string
	Amount int
}

// EventQueue is a simple FIFO queue.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

func (q *EventQueue) flush() {
	if q == nil {
		return
	}
	q.items = nil
}
