package services

import (
	"errors"

	"github.com/arushsrivastava/HectoClash-Game/internal/models"

	"gorm.io/gorm"
)

type ProfileService struct {
	db *gorm.DB
}

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{db: db}
}

func (s *ProfileService) GetUser(userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return nil, errors.New("user not found")
	}
	return &user, nil
}

type LeaderboardEntry struct {
	Rank        int    `json:"rank"`
	Username    string `json:"username"`
	Rating      int    `json:"rating"`
	GamesPlayed int    `json:"games_played"`
	WinRate     int    `json:"win_rate"`
}

// Leaderboard returns the top rated non-guest players.
func (s *ProfileService) Leaderboard(limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	var users []models.User
	if err := s.db.Where("is_guest = ?", false).
		Order("rating DESC").
		Limit(limit).
		Find(&users).Error; err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, len(users))
	for i, u := range users {
		entries[i] = LeaderboardEntry{
			Rank:        i + 1,
			Username:    u.Username,
			Rating:      u.Rating,
			GamesPlayed: u.GamesPlayed,
			WinRate:     u.WinRate(),
		}
	}
	return entries, nil
}

// History lists a player's persisted matches, newest first.
func (s *ProfileService) History(userID uint, limit int) ([]models.MatchRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var matches []models.MatchRecord
	err := s.db.
		Joins("JOIN match_players ON match_players.match_id = match_records.id").
		Where("match_players.user_id = ?", userID).
		Preload("Players").
		Order("match_records.created_at DESC").
		Limit(limit).
		Find(&matches).Error
	if err != nil {
		return nil, err
	}
	return matches, nil
}

// Match fetches one full match record including rounds and
// submissions.
func (s *ProfileService) Match(sessionID string) (*models.MatchRecord, error) {
	var match models.MatchRecord
	err := s.db.Where("session_id = ?", sessionID).
		Preload("Players").
		Preload("Rounds", func(db *gorm.DB) *gorm.DB {
			return db.Order("round_number ASC")
		}).
		Preload("Rounds.Submissions").
		First(&match).Error
	if err != nil {
		return nil, errors.New("match not found")
	}
	return &match, nil
}
