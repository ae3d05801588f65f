package models

import "time"

// MatchRecord is the persisted outcome of a finished duel. Written
// exactly once per session; SessionID is the idempotency key.
type MatchRecord struct {
	ID           uint              `gorm:"primaryKey" json:"id"`
	SessionID    string            `gorm:"size:36;uniqueIndex;not null" json:"session_id"`
	Status       string            `gorm:"size:20;not null" json:"status"`
	AbandonedBy  uint              `gorm:"default:0" json:"abandoned_by,omitempty"`
	Practice     bool              `gorm:"not null;default:false" json:"practice"`
	WinnerID     uint              `gorm:"default:0" json:"winner_id,omitempty"`
	DurationMS   int64             `gorm:"not null;default:0" json:"duration_ms"`
	Players      []MatchPlayer     `gorm:"foreignKey:MatchID" json:"players,omitempty"`
	Rounds       []MatchRound      `gorm:"foreignKey:MatchID" json:"rounds,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
}

const (
	MatchStatusCompleted = "completed"
	MatchStatusAbandoned = "abandoned"
)

// MatchPlayer holds one side's score and rating movement.
type MatchPlayer struct {
	ID          uint `gorm:"primaryKey" json:"id"`
	MatchID     uint `gorm:"not null;uniqueIndex:idx_match_user" json:"match_id"`
	UserID      uint `gorm:"not null;uniqueIndex:idx_match_user" json:"user_id"`
	Score       int  `gorm:"not null;default:0" json:"score"`
	OldRating   int  `gorm:"not null" json:"old_rating"`
	NewRating   int  `gorm:"not null" json:"new_rating"`
	RatingDelta int  `gorm:"not null" json:"rating_delta"`
}

type MatchRound struct {
	ID          uint              `gorm:"primaryKey" json:"id"`
	MatchID     uint              `gorm:"not null;index" json:"match_id"`
	RoundNumber int               `gorm:"not null" json:"round_number"`
	Puzzle      string            `gorm:"size:6;not null" json:"puzzle"`
	WinnerID    uint              `gorm:"default:0" json:"winner_id,omitempty"`
	StartedAt   time.Time         `json:"started_at"`
	EndedAt     time.Time         `json:"ended_at"`
	Submissions []MatchSubmission `gorm:"foreignKey:RoundID" json:"submissions,omitempty"`
}

type MatchSubmission struct {
	ID         uint    `gorm:"primaryKey" json:"id"`
	RoundID    uint    `gorm:"not null;index" json:"round_id"`
	UserID     uint    `gorm:"not null" json:"user_id"`
	Expression string  `gorm:"size:255;not null" json:"expression"`
	Result     float64 `gorm:"not null" json:"result"`
	Valid      bool    `gorm:"not null" json:"valid"`
	ElapsedMS  int64   `gorm:"not null" json:"elapsed_ms"`
}
