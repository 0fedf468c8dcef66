// models/gorm_models.go
package models

import (
	"gorm.io/gorm"
)

// GormGameRecord 游戏记录模型. Leaderboard and FunStats hold serialized
// JSON.
type GormGameRecord struct {
	gorm.Model
	RoomCode        string `gorm:"index;not null"`
	Category        string `gorm:"not null"`
	Rounds          int    `gorm:"default:0"`
	DurationSeconds int    `gorm:"default:0"`
	Leaderboard     []byte `gorm:"type:jsonb;not null"`
	FunStats        []byte `gorm:"type:jsonb"`
	WinnerName      string `gorm:"index"`
}

// GormPlayerAggregate 玩家累计统计模型, keyed by display name.
type GormPlayerAggregate struct {
	gorm.Model
	Name        string `gorm:"uniqueIndex;not null"`
	TotalGames  int    `gorm:"default:0"`
	Wins        int    `gorm:"default:0"`
	TotalPoints int64  `gorm:"default:0"`
}
