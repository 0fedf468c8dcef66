// persistence/interface.go
package persistence

import (
	"fmt"

	"github.com/wfunc/pictureduel/models"
)

// Database 数据库接口 — finished-game archival and per-player aggregates.
type Database interface {
	// SaveGameRecord archives one finished game and folds its leaderboard
	// into the per-player aggregates.
	SaveGameRecord(record models.GameRecord) error
	GetPlayerStats(name string) (models.PlayerStats, error)
	GetRecentGames(limit int) ([]models.GameRecord, error)
	Close() error
}

// 错误定义
var (
	ErrRecordNotFound = fmt.Errorf("record not found")
)
