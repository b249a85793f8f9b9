package events

import "time"

// Event types emitted by the study pipeline.
const (
	TypeNoteProcessed     = "NOTE_PROCESSED"
	TypeQuizGenerated     = "QUIZ_GENERATED"
	TypeQuizUpgraded      = "QUIZ_UPGRADED"
	TypeStudyPackCreated  = "STUDY_PACK_CREATED"
	TypeStudyPackUpgraded = "STUDY_PACK_UPGRADED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "NOTE_PROCESSED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the standard Event implementation; the New* constructors
// below build valid instances.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

func newEvent(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{Type: eventType, Data: data, OccurredAt: time.Now()}
}

func NewNoteProcessed(noteId, noteType string, conceptCount int) Event {
	return newEvent(TypeNoteProcessed, map[string]interface{}{
		"note_id":       noteId,
		"note_type":     noteType,
		"concept_count": conceptCount,
	})
}

func NewQuizGenerated(quizId, noteId string, questionCount int, isLocal bool) Event {
	return newEvent(TypeQuizGenerated, map[string]interface{}{
		"quiz_id":        quizId,
		"note_id":        noteId,
		"question_count": questionCount,
		"is_local":       isLocal,
	})
}

// NewQuizUpgraded fires when the model-backed quiz replaces the local one
// that was served first.
func NewQuizUpgraded(quizId, noteId string, questionCount int) Event {
	return newEvent(TypeQuizUpgraded, map[string]interface{}{
		"quiz_id":        quizId,
		"note_id":        noteId,
		"question_count": questionCount,
	})
}

func NewStudyPackCreated(packId, noteId, sourceUrl string) Event {
	return newEvent(TypeStudyPackCreated, map[string]interface{}{
		"pack_id":    packId,
		"note_id":    noteId,
		"source_url": sourceUrl,
	})
}

// NewStudyPackUpgraded carries the full upgraded pack so websocket clients
// can swap it in without refetching.
func NewStudyPackUpgraded(packId string, pack interface{}) Event {
	return newEvent(TypeStudyPackUpgraded, map[string]interface{}{
		"pack_id": packId,
		"pack":    pack,
	})
}
