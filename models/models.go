// models/models.go
package models

import (
	"time"
)

// PlayerResult 一局游戏中单个玩家的最终成绩
type PlayerResult struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	Score    int    `json:"score"`
	Draws    int    `json:"draws"`
}

// FunStat names the player who topped one end-of-game statistic.
type FunStat struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	Value    int64  `json:"value"`
}

// GameRecord 游戏记录模型 — one finished game, persisted when a room
// reaches game over.
type GameRecord struct {
	RoomCode        string         `json:"room_code"`
	Category        string         `json:"category"`
	Rounds          int            `json:"rounds"`
	DurationSeconds int            `json:"duration_seconds"`
	Leaderboard     []PlayerResult `json:"leaderboard"` // ascending by score
	FastestGuessMs  *FunStat       `json:"fastest_guess_ms,omitempty"`
	MostGuesses     *FunStat       `json:"most_guesses,omitempty"`
	MostCorrect     *FunStat       `json:"most_correct,omitempty"`
	MostStrokes     *FunStat       `json:"most_strokes,omitempty"`
	FinishedAt      time.Time      `json:"finished_at"`
}

// Winner returns the top scorer, the last leaderboard entry.
func (r GameRecord) Winner() (PlayerResult, bool) {
	if len(r.Leaderboard) == 0 {
		return PlayerResult{}, false
	}
	return r.Leaderboard[len(r.Leaderboard)-1], true
}

// PlayerStats 玩家累计统计
type PlayerStats struct {
	Name        string `json:"name"`
	TotalGames  int    `json:"total_games"`
	Wins        int    `json:"wins"`
	TotalPoints int64  `json:"total_points"`
}
