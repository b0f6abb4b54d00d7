package docstore

import "time"

const (
	RemarkFromUser = "user"
	RemarkFromDuck = "duck"
)

// User is the per-user configuration document. Prompts keeps the stored
// shape of one single-entry {prompt_id: text} map per tag; the journal
// engine validates it into typed templates before use.
type User struct {
	ID           string                       `firestore:"-"`
	Name         string                       `firestore:"name"`
	DuckID       string                       `firestore:"duck_id"`
	Prompts      map[string]map[string]string `firestore:"prompts"`
	Hints        map[string]string            `firestore:"hints"`
	HintForToday string                       `firestore:"hint_for_today"`
	LastActive   time.Time                    `firestore:"last_active"`
	FocusTime    int64                        `firestore:"focus_time"`
	BreakTime    int64                        `firestore:"break_time"`
}

// Remark is one turn in a user's conversation thread. AudioURL stays
// empty until the transcription webhook enriches the document.
type Remark struct {
	From      string    `firestore:"from"`
	UserID    string    `firestore:"user_id"`
	DuckID    string    `firestore:"duck_id"`
	Text      string    `firestore:"text"`
	AudioURL  string    `firestore:"audio_url"`
	CreatedAt time.Time `firestore:"created_at"`
}
