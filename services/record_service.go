// services/record_service.go
package services

import (
	"github.com/wfunc/pictureduel/logger"
	"github.com/wfunc/pictureduel/models"
	"github.com/wfunc/pictureduel/persistence"
)

// RecordService archives finished games and answers stats queries. A nil
// service (no database configured) swallows writes and reports not-found.
type RecordService struct {
	db persistence.Database
}

func NewRecordService(db persistence.Database) *RecordService {
	return &RecordService{db: db}
}

// GameFinished archives one finished game. It runs off the room's event
// path, so a slow or failing database never blocks gameplay.
func (s *RecordService) GameFinished(record models.GameRecord) {
	if s == nil || s.db == nil {
		return
	}
	if err := s.db.SaveGameRecord(record); err != nil {
		logger.Log.Errorf("Failed to archive game in room %s: %v", record.RoomCode, err)
		return
	}
	logger.Log.Infof("Archived game in room %s (%d rounds, %d players)",
		record.RoomCode, record.Rounds, len(record.Leaderboard))
}

// PlayerStats returns the lifetime aggregate for a display name.
func (s *RecordService) PlayerStats(name string) (models.PlayerStats, error) {
	if s == nil || s.db == nil {
		return models.PlayerStats{}, persistence.ErrRecordNotFound
	}
	return s.db.GetPlayerStats(name)
}

// RecentGames returns the newest archived games, newest first.
func (s *RecordService) RecentGames(limit int) ([]models.GameRecord, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	return s.db.GetRecentGames(limit)
}
