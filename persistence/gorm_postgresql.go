// persistence/gorm_postgresql.go
package persistence

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/wfunc/pictureduel/models"
)

// GormPostgreSQL 使用GORM的PostgreSQL实现
type GormPostgreSQL struct {
	db *gorm.DB
}

// NewGormPostgreSQL 创建GORM PostgreSQL数据库连接
func NewGormPostgreSQL(host string, port int, user, password, dbname string) (*GormPostgreSQL, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	// 配置GORM日志
	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags), // io writer
		logger.Config{
			SlowThreshold: time.Second,   // 慢SQL阈值
			LogLevel:      logger.Silent, // 日志级别
			Colorful:      false,         // 禁用彩色打印
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, err
	}

	// 获取通用数据库对象 sql.DB
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// 设置连接池
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// 自动迁移表结构
	if err := autoMigrate(db); err != nil {
		return nil, err
	}

	return &GormPostgreSQL{db: db}, nil
}

// autoMigrate 自动迁移表结构
func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.GormGameRecord{},
		&models.GormPlayerAggregate{},
	)
}

// funStatsBlob is the serialized form of the end-of-game extras.
type funStatsBlob struct {
	FastestGuessMs *models.FunStat `json:"fastest_guess_ms,omitempty"`
	MostGuesses    *models.FunStat `json:"most_guesses,omitempty"`
	MostCorrect    *models.FunStat `json:"most_correct,omitempty"`
	MostStrokes    *models.FunStat `json:"most_strokes,omitempty"`
}

// SaveGameRecord 保存游戏记录. The record and the per-player aggregate
// updates commit in one transaction.
func (p *GormPostgreSQL) SaveGameRecord(record models.GameRecord) error {
	leaderboard, err := json.Marshal(record.Leaderboard)
	if err != nil {
		return err
	}
	funStats, err := json.Marshal(funStatsBlob{
		FastestGuessMs: record.FastestGuessMs,
		MostGuesses:    record.MostGuesses,
		MostCorrect:    record.MostCorrect,
		MostStrokes:    record.MostStrokes,
	})
	if err != nil {
		return err
	}

	winnerName := ""
	if winner, ok := record.Winner(); ok {
		winnerName = winner.Name
	}

	return p.db.Transaction(func(tx *gorm.DB) error {
		row := models.GormGameRecord{
			RoomCode:        record.RoomCode,
			Category:        record.Category,
			Rounds:          record.Rounds,
			DurationSeconds: record.DurationSeconds,
			Leaderboard:     leaderboard,
			FunStats:        funStats,
			WinnerName:      winnerName,
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}

		for _, result := range record.Leaderboard {
			var agg models.GormPlayerAggregate
			err := tx.Where("name = ?", result.Name).First(&agg).Error
			if err == gorm.ErrRecordNotFound {
				agg = models.GormPlayerAggregate{Name: result.Name}
			} else if err != nil {
				return err
			}

			agg.TotalGames++
			agg.TotalPoints += int64(result.Score)
			if result.Name == winnerName {
				agg.Wins++
			}
			if err := tx.Save(&agg).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// GetPlayerStats 获取玩家累计统计
func (p *GormPostgreSQL) GetPlayerStats(name string) (models.PlayerStats, error) {
	var agg models.GormPlayerAggregate
	if err := p.db.Where("name = ?", name).First(&agg).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return models.PlayerStats{}, ErrRecordNotFound
		}
		return models.PlayerStats{}, err
	}
	return models.PlayerStats{
		Name:        agg.Name,
		TotalGames:  agg.TotalGames,
		Wins:        agg.Wins,
		TotalPoints: agg.TotalPoints,
	}, nil
}

// GetRecentGames 获取最近的游戏记录
func (p *GormPostgreSQL) GetRecentGames(limit int) ([]models.GameRecord, error) {
	if limit <= 0 {
		limit = 10
	}

	var rows []models.GormGameRecord
	if err := p.db.Order("created_at DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}

	records := make([]models.GameRecord, 0, len(rows))
	for _, row := range rows {
		record := models.GameRecord{
			RoomCode:        row.RoomCode,
			Category:        row.Category,
			Rounds:          row.Rounds,
			DurationSeconds: row.DurationSeconds,
			FinishedAt:      row.CreatedAt,
		}
		if err := json.Unmarshal(row.Leaderboard, &record.Leaderboard); err != nil {
			return nil, err
		}
		if len(row.FunStats) > 0 {
			var blob funStatsBlob
			if err := json.Unmarshal(row.FunStats, &blob); err != nil {
				return nil, err
			}
			record.FastestGuessMs = blob.FastestGuessMs
			record.MostGuesses = blob.MostGuesses
			record.MostCorrect = blob.MostCorrect
			record.MostStrokes = blob.MostStrokes
		}
		records = append(records, record)
	}
	return records, nil
}

// Close 关闭数据库连接
func (p *GormPostgreSQL) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
