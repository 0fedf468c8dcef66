// persistence/postgresql.go
package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	// PostgreSQL 驱动
	_ "github.com/lib/pq" // PostgreSQL 驱动

	"github.com/wfunc/pictureduel/models"
)

const queryTimeout = 5 * time.Second

// PostgreSQL 数据库实现 — the plain database/sql alternative to the GORM
// backend, same schema semantics.
type PostgreSQL struct {
	db *sql.DB
}

// NewPostgreSQL 创建 PostgreSQL 数据库连接
func NewPostgreSQL(host string, port int, user, password, dbname string) (*PostgreSQL, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	// 测试连接
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	// 设置连接池参数
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	// 初始化表结构
	if err := initTables(db); err != nil {
		return nil, err
	}

	return &PostgreSQL{db: db}, nil
}

// initTables 初始化数据库表结构
func initTables(db *sql.DB) error {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS game_records (
            id SERIAL PRIMARY KEY,
            room_code VARCHAR(8) NOT NULL,
            category VARCHAR(50) NOT NULL,
            rounds INT NOT NULL DEFAULT 0,
            duration_seconds INT NOT NULL DEFAULT 0,
            leaderboard JSONB NOT NULL,
            fun_stats JSONB,
            winner_name VARCHAR(50),
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )
    `)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
        CREATE TABLE IF NOT EXISTS player_aggregates (
            id SERIAL PRIMARY KEY,
            name VARCHAR(50) UNIQUE NOT NULL,
            total_games INT NOT NULL DEFAULT 0,
            wins INT NOT NULL DEFAULT 0,
            total_points BIGINT NOT NULL DEFAULT 0,
            updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )
    `)
	if err != nil {
		return err
	}

	// 创建索引以提高查询性能
	_, err = db.Exec(`
        CREATE INDEX IF NOT EXISTS idx_game_records_room_code ON game_records(room_code);
        CREATE INDEX IF NOT EXISTS idx_game_records_created_at ON game_records(created_at);
        CREATE INDEX IF NOT EXISTS idx_game_records_winner_name ON game_records(winner_name);
    `)

	return err
}

// SaveGameRecord 保存游戏记录
func (p *PostgreSQL) SaveGameRecord(record models.GameRecord) error {
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

	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
        INSERT INTO game_records (room_code, category, rounds, duration_seconds, leaderboard, fun_stats, winner_name)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `, record.RoomCode, record.Category, record.Rounds, record.DurationSeconds, leaderboard, funStats, winnerName)
	if err != nil {
		return err
	}

	for _, result := range record.Leaderboard {
		win := 0
		if result.Name == winnerName {
			win = 1
		}
		// 使用 UPSERT 操作 (PostgreSQL 9.5+)
		_, err = tx.ExecContext(ctx, `
            INSERT INTO player_aggregates (name, total_games, wins, total_points)
            VALUES ($1, 1, $2, $3)
            ON CONFLICT (name)
            DO UPDATE SET
                total_games = player_aggregates.total_games + 1,
                wins = player_aggregates.wins + $2,
                total_points = player_aggregates.total_points + $3,
                updated_at = CURRENT_TIMESTAMP
        `, result.Name, win, int64(result.Score))
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetPlayerStats 获取玩家累计统计
func (p *PostgreSQL) GetPlayerStats(name string) (models.PlayerStats, error) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	var stats models.PlayerStats
	query := `SELECT name, total_games, wins, total_points FROM player_aggregates WHERE name = $1`
	err := p.db.QueryRowContext(ctx, query, name).Scan(&stats.Name, &stats.TotalGames, &stats.Wins, &stats.TotalPoints)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.PlayerStats{}, ErrRecordNotFound
		}
		return models.PlayerStats{}, err
	}
	return stats, nil
}

// GetRecentGames 获取最近的游戏记录
func (p *PostgreSQL) GetRecentGames(limit int) ([]models.GameRecord, error) {
	if limit <= 0 {
		limit = 10
	}

	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	rows, err := p.db.QueryContext(ctx, `
        SELECT room_code, category, rounds, duration_seconds, leaderboard, fun_stats, created_at
        FROM game_records
        ORDER BY created_at DESC
        LIMIT $1
    `, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.GameRecord
	for rows.Next() {
		var record models.GameRecord
		var leaderboard, funStats []byte
		if err := rows.Scan(&record.RoomCode, &record.Category, &record.Rounds,
			&record.DurationSeconds, &leaderboard, &funStats, &record.FinishedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(leaderboard, &record.Leaderboard); err != nil {
			return nil, err
		}
		if len(funStats) > 0 {
			var blob funStatsBlob
			if err := json.Unmarshal(funStats, &blob); err != nil {
				return nil, err
			}
			record.FastestGuessMs = blob.FastestGuessMs
			record.MostGuesses = blob.MostGuesses
			record.MostCorrect = blob.MostCorrect
			record.MostStrokes = blob.MostStrokes
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// Close 关闭数据库连接
func (p *PostgreSQL) Close() error {
	return p.db.Close()
}
