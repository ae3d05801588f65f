package services

import (
	"errors"
	"log"
	"time"

	"github.com/arushsrivastava/HectoClash-Game/internal/game"
	"github.com/arushsrivastava/HectoClash-Game/internal/models"

	"gorm.io/gorm"
)

// ResultService persists finished duels and applies rating deltas.
// Satisfies game.ResultSink. The unique index on session_id is the
// idempotency key: a retried write of an already-recorded match is a
// clean no-op, so ratings and stats are applied at most once per
// participant per session.
type ResultService struct {
	db          *gorm.DB
	maxAttempts int
	backoff     time.Duration
}

func NewResultService(db *gorm.DB) *ResultService {
	return &ResultService{db: db, maxAttempts: 5, backoff: time.Second}
}

// Record runs asynchronously: session teardown never blocks on the
// profile store. Transient failures are retried with backoff up to
// the attempt bound, then logged; the match outcome stands either
// way.
func (s *ResultService) Record(sum *game.Summary) {
	go func() {
		delay := s.backoff
		for attempt := 1; ; attempt++ {
			err := s.persist(sum)
			if err == nil {
				return
			}
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				log.Printf("results: session %s already recorded", sum.SessionID)
				return
			}
			if attempt >= s.maxAttempts {
				log.Printf("results: giving up on session %s after %d attempts: %v",
					sum.SessionID, attempt, err)
				return
			}
			log.Printf("results: attempt %d for session %s failed: %v", attempt, sum.SessionID, err)
			time.Sleep(delay)
			delay *= 2
		}
	}()
}

func (s *ResultService) persist(sum *game.Summary) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		// Idempotency check inside the transaction; the unique index
		// backstops a concurrent retry.
		var count int64
		tx.Model(&models.MatchRecord{}).Where("session_id = ?", sum.SessionID).Count(&count)
		if count > 0 {
			return nil
		}

		record := models.MatchRecord{
			SessionID:   sum.SessionID,
			Status:      string(sum.Status),
			AbandonedBy: sum.AbandonedBy,
			Practice:    sum.Practice,
			WinnerID:    sum.WinnerID,
			DurationMS:  sum.Duration.Milliseconds(),
		}
		if err := tx.Create(&record).Error; err != nil {
			return err
		}

		for _, p := range sum.Players {
			player := models.MatchPlayer{
				MatchID:     record.ID,
				UserID:      p.UserID,
				Score:       p.Score,
				OldRating:   p.Rating,
				NewRating:   p.Rating + p.RatingDelta,
				RatingDelta: p.RatingDelta,
			}
			if err := tx.Create(&player).Error; err != nil {
				return err
			}
			if err := s.applyStats(tx, sum, p); err != nil {
				return err
			}
		}

		for _, r := range sum.Rounds {
			round := models.MatchRound{
				MatchID:     record.ID,
				RoundNumber: r.Number,
				Puzzle:      r.Puzzle.Sequence,
				WinnerID:    r.WinnerID,
				StartedAt:   r.StartedAt,
				EndedAt:     r.EndedAt,
			}
			if err := tx.Create(&round).Error; err != nil {
				return err
			}
			for _, sub := range r.Submissions {
				if err := tx.Create(&models.MatchSubmission{
					RoundID:    round.ID,
					UserID:     sub.UserID,
					Expression: sub.Expression,
					Result:     sub.Result,
					Valid:      sub.Valid,
					ElapsedMS:  sub.Elapsed.Milliseconds(),
				}).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// applyStats moves one player's rating and aggregates. Practice
// sessions touch solve-time stats only.
func (s *ResultService) applyStats(tx *gorm.DB, sum *game.Summary, p game.PlayerResult) error {
	updates := map[string]interface{}{}

	if !sum.Practice {
		updates["rating"] = gorm.Expr("rating + ?", p.RatingDelta)
		updates["games_played"] = gorm.Expr("games_played + 1")
		switch {
		case sum.WinnerID == p.UserID:
			updates["wins"] = gorm.Expr("wins + 1")
		case sum.Draw:
			updates["draws"] = gorm.Expr("draws + 1")
		default:
			updates["losses"] = gorm.Expr("losses + 1")
		}
	}

	if best, total := winningTimes(sum, p.UserID); total > 0 {
		updates["total_solve_ms"] = gorm.Expr("total_solve_ms + ?", total)
		updates["best_solve_ms"] = gorm.Expr(
			"CASE WHEN best_solve_ms = 0 OR best_solve_ms > ? THEN ? ELSE best_solve_ms END",
			best, best)
	}

	if len(updates) == 0 {
		return nil
	}
	return tx.Model(&models.User{}).Where("id = ?", p.UserID).Updates(updates).Error
}

// winningTimes sums the elapsed times of the rounds this player won.
func winningTimes(sum *game.Summary, userID uint) (best, total int64) {
	for _, r := range sum.Rounds {
		if r.WinnerID != userID {
			continue
		}
		for _, sub := range r.Submissions {
			if sub.UserID == userID && sub.Valid {
				ms := sub.Elapsed.Milliseconds()
				total += ms
				if best == 0 || ms < best {
					best = ms
				}
				break
			}
		}
	}
	return best, total
}
