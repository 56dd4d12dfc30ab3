package events

import "fmt"

// Log is an append-only list of events with consecutive ids.
type Log struct {
	entries []GameEvent
	nextID  int
}

// NewLog creates an empty log whose first event will get firstID.
func NewLog(firstID int) *Log {
	return &Log{nextID: firstID}
}

// Restore rebuilds a log from persisted events. The events must be ordered
// with consecutive ids.
func Restore(entries []GameEvent) (*Log, error) {
	l := &Log{}
	for i, e := range entries {
		if i > 0 && e.ID != entries[i-1].ID+1 {
			return nil, fmt.Errorf("event ids not consecutive: %d follows %d", e.ID, entries[i-1].ID)
		}
	}
	l.entries = append([]GameEvent{}, entries...)
	if len(entries) > 0 {
		l.nextID = entries[len(entries)-1].ID + 1
	}
	return l, nil
}

// NextID is the id the next appended event will receive.
func (l *Log) NextID() int { return l.nextID }

// Len reports how many events the log holds.
func (l *Log) Len() int { return len(l.entries) }

// Append records a new event and returns it.
func (l *Log) Append(turn int, t Type, ids []int, target *int) GameEvent {
	e := GameEvent{
		ID:       l.nextID,
		Turn:     turn,
		Type:     t,
		IDs:      append([]int{}, ids...),
		TargetID: target,
	}
	l.nextID++
	l.entries = append(l.entries, e)
	return e
}

// Extend appends already-numbered events, as produced by a Recorder that
// was started at NextID.
func (l *Log) Extend(batch []GameEvent) error {
	for _, e := range batch {
		if e.ID != l.nextID {
			return fmt.Errorf("event %d out of sequence, expected %d", e.ID, l.nextID)
		}
		l.entries = append(l.entries, e)
		l.nextID++
	}
	return nil
}

// All returns a copy of every event.
func (l *Log) All() []GameEvent {
	return append([]GameEvent{}, l.entries...)
}

// Since returns events with id >= id.
func (l *Log) Since(id int) []GameEvent {
	var out []GameEvent
	for _, e := range l.entries {
		if e.ID >= id {
			out = append(out, e)
		}
	}
	return out
}

// TruncateAfter drops every event with id > id and rewinds numbering to
// follow it. Sessions use this when undoing turns.
func (l *Log) TruncateAfter(id int) {
	n := 0
	for _, e := range l.entries {
		if e.ID <= id {
			n++
		}
	}
	l.entries = l.entries[:n]
	l.nextID = id + 1
}

// Recorder collects the events of one batch before they are committed. It
// numbers events from the log's NextID so a rejected batch leaves the log
// untouched.
type Recorder struct {
	nextID int
	turn   func() int
	batch  []GameEvent
}

// NewRecorder starts numbering at firstID. turn reports the current turn at
// the moment each event is recorded.
func NewRecorder(firstID int, turn func() int) *Recorder {
	return &Recorder{nextID: firstID, turn: turn}
}

// Record appends an event to the batch.
func (r *Recorder) Record(t Type, ids []int, target *int) {
	r.batch = append(r.batch, GameEvent{
		ID:       r.nextID,
		Turn:     r.turn(),
		Type:     t,
		IDs:      append([]int{}, ids...),
		TargetID: target,
	})
	r.nextID++
}

// Events returns the batch recorded so far.
func (r *Recorder) Events() []GameEvent {
	return append([]GameEvent{}, r.batch...)
}
