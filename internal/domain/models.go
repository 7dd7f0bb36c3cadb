package domain

import "time"

// Question is a stored multiple-choice question. Answer is the zero-based
// index into Options of the correct choice. JSON tags match the flat-file
// format the bot persists.
type Question struct {
	ID          int64     `json:"id"`
	Prompt      string    `json:"question"`
	Options     []string  `json:"options"`
	Answer      int       `json:"answer"`
	Category    string    `json:"category"`
	Explanation string    `json:"explanation,omitempty"`
	CreatedBy   string    `json:"created_by,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
}

// Draft is an unsaved question; everything except the assigned ID.
type Draft struct {
	Prompt      string
	Options     []string
	Answer      int
	Category    string
	Explanation string
	CreatedBy   string
}

// CategoryStat is a per-category slice of a user's answer history.
type CategoryStat struct {
	Answered int `json:"answered"`
	Correct  int `json:"correct"`
}

// UserStat is the durable per-user scoreboard.
type UserStat struct {
	Name       string                  `json:"name,omitempty"`
	Answered   int                     `json:"total"`
	Correct    int                     `json:"correct"`
	Categories map[string]CategoryStat `json:"categories,omitempty"`
}

// Accuracy returns correct/answered, or 0 before any answer.
func (s UserStat) Accuracy() float64 {
	if s.Answered == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Answered)
}

// SessionStatus tracks the lifecycle of a posed question.
type SessionStatus int

const (
	SessionPending SessionStatus = iota
	SessionAnswered
	SessionExpired
)

// QuizSession is the transient state for one posed-but-unanswered question.
// It holds a value copy of the Question, so the session stays answerable even
// if the question is deleted from the store mid-flight.
type QuizSession struct {
	UserID   int64
	Question Question
	AskedAt  time.Time
	Status   SessionStatus
}

// Prompt is the caller-visible rendering of a posed question. The correct
// option index is deliberately absent.
type Prompt struct {
	QuestionID int64    `json:"questionId"`
	Text       string   `json:"text"`
	Options    []string `json:"options"`
	Category   string   `json:"category"`
}

// Verdict summarizes the outcome of a submitted answer.
type Verdict struct {
	Correct     bool     `json:"correct"`
	CorrectText string   `json:"correctText"`
	Explanation string   `json:"explanation,omitempty"`
	Stats       UserStat `json:"stats"`
}

// Summary is the process-wide aggregate reported by the status page.
type Summary struct {
	TotalQuestions int            `json:"total_questions"`
	TotalUsers     int            `json:"total_users"`
	Categories     map[string]int `json:"categories"`
}
