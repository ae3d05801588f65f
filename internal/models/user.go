package models

import "time"

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:100;uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"size:255" json:"-"`
	IsGuest      bool      `gorm:"not null;default:false" json:"is_guest"`
	Rating       int       `gorm:"not null;default:1200" json:"rating"`
	GamesPlayed  int       `gorm:"not null;default:0" json:"games_played"`
	Wins         int       `gorm:"not null;default:0" json:"wins"`
	Losses       int       `gorm:"not null;default:0" json:"losses"`
	Draws        int       `gorm:"not null;default:0" json:"draws"`
	TotalSolveMS int64     `gorm:"not null;default:0" json:"-"`
	BestSolveMS  int64     `gorm:"default:0" json:"best_solve_ms,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// DefaultRating is assigned to every new account.
const DefaultRating = 1200

func (u *User) WinRate() int {
	if u.GamesPlayed == 0 {
		return 0
	}
	return int(float64(u.Wins)/float64(u.GamesPlayed)*100 + 0.5)
}
