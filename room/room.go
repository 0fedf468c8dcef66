// room/room.go
package room

import (
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/wfunc/pictureduel/logger"
	"github.com/wfunc/pictureduel/models"
	"github.com/wfunc/pictureduel/network"
	"github.com/wfunc/pictureduel/state"
	"github.com/wfunc/pictureduel/words"
)

// Round end reasons, revealed to clients in the tally.
const (
	ReasonTimeUp     = "time_up"
	ReasonAllGuessed = "all_guessed"
	ReasonDrawerLeft = "drawer_left"
)

const maxChatLength = 200

// ErrNameRequired is returned by Join when no usable display name is left
// after trimming.
var ErrNameRequired = errors.New("a display name is required to join")

// Room 是游戏房间的核心结构 — one isolated game session. Every exported
// method locks the room mutex, handles the event to completion and emits
// its notifications before returning, so clients observe notifications in
// event order.
type Room struct {
	Code string

	cfg  Config
	deps Deps

	mu        sync.Mutex
	players   map[string]*Player // sessionID -> player
	joinOrder []string
	hostID    string

	// Game-scoped settings, frozen once the first word is consumed.
	category      string
	roundDuration time.Duration
	usedWords     map[string]bool

	machine *state.Machine

	// roundSeq invalidates stale timer callbacks: every round start and
	// reset bumps it, and a callback armed under an older value is a no-op.
	roundSeq uint64

	gameStartedAt time.Time
	roundsPlayed  int
}

// NewRoom 创建一个新房间
func NewRoom(code string, cfg Config, deps Deps) *Room {
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	return &Room{
		Code:          code,
		cfg:           cfg,
		deps:          deps,
		players:       make(map[string]*Player),
		usedWords:     make(map[string]bool),
		roundDuration: cfg.DefaultRoundDuration,
		machine:       state.NewMachine(),
	}
}

// Phase 获取房间当前回合阶段
func (r *Room) Phase() state.Phase {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.machine.Phase()
}

// PlayerCount returns the current membership size.
func (r *Room) PlayerCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.players)
}

// --- event dispatch ---

// Join adds (or re-binds) a member and returns the final, de-duplicated
// display name. The first member becomes host. Rejoining under the same
// session ID keeps score and draw count.
func (r *Room) Join(sessionID, rawName string) (string, error) {
	name := trimName(rawName)
	if name == "" {
		return "", ErrNameRequired
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	final := r.uniqueNameLocked(name, sessionID)
	if p, ok := r.players[sessionID]; ok {
		p.Name = final
	} else {
		r.players[sessionID] = &Player{ID: sessionID, Name: final}
		r.joinOrder = append(r.joinOrder, sessionID)
	}
	if r.hostID == "" {
		r.hostID = sessionID
	}

	logger.Log.Infof("Session %s (%s) joined room %s", sessionID, final, r.Code)

	r.send(sessionID, network.MsgTypeJoinedRoom, network.JoinedRoomPayload{RoomCode: r.Code, Name: final})
	r.broadcastRoomStateLocked()
	return final, nil
}

// Leave removes a member, transferring the host role and ending the round
// when the active drawer departs. It reports whether the room is now empty,
// in which case the caller removes it from the store; both timers are
// already cancelled by then.
func (r *Room) Leave(sessionID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.players[sessionID]; !ok {
		return len(r.players) == 0
	}

	wasDrawer := false
	if active, ok := r.machine.Current().(*state.Active); ok && active.DrawerID == sessionID {
		wasDrawer = true
	}

	delete(r.players, sessionID)
	for i, id := range r.joinOrder {
		if id == sessionID {
			r.joinOrder = append(r.joinOrder[:i], r.joinOrder[i+1:]...)
			break
		}
	}

	if len(r.players) == 0 {
		r.cancelTimersLocked()
		return true
	}

	// Host role moves to the earliest remaining joiner.
	if r.hostID == sessionID {
		r.hostID = r.joinOrder[0]
	}

	if wasDrawer {
		r.endRoundLocked(ReasonDrawerLeft)
	} else {
		r.broadcastRoomStateLocked()
	}
	return false
}

// HostStartRound starts the first round of a game, locking in category and
// duration. Subsequent rounds start themselves.
func (r *Room) HostStartRound(sessionID, category string, durationMs int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	reject := func(message string) {
		r.send(sessionID, network.MsgTypeRoundError, network.ErrorPayload{Message: message})
	}

	if r.machine.Phase() == state.PhaseGameOver {
		reject("Game has finished. Start a new game.")
		return
	}
	if sessionID != r.hostID {
		reject("Only the host can start rounds.")
		return
	}
	if r.machine.Phase() == state.PhaseActive {
		reject("Round already active.")
		return
	}
	if r.category != "" && len(r.usedWords) > 0 {
		// Settings are locked for the rest of this game.
		reject("Game already in progress.")
		return
	}
	if !words.IsCategory(category) {
		reject("Please select a valid category.")
		return
	}
	if len(r.players) == 0 {
		reject("Need at least 1 player to start (2 for real games).")
		return
	}

	drawer := r.pickNextDrawerLocked()
	if drawer == nil {
		reject("No drawer available.")
		return
	}
	word, ok := words.Pick(category, r.usedWords)
	if !ok {
		reject("No words left in this category.")
		return
	}

	dur := time.Duration(durationMs) * time.Millisecond
	if dur < r.cfg.MinRoundDuration || dur > r.cfg.MaxRoundDuration {
		dur = r.cfg.DefaultRoundDuration
	}
	r.roundDuration = dur
	r.category = category

	r.startRoundLocked(drawer, word)
}

// SubmitGuess scores a guess against the active round's word. Malformed or
// out-of-turn guesses are dropped without notification; a processed guess
// is answered with a unicast result.
func (r *Room) SubmitGuess(sessionID, rawGuess string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	active, ok := r.machine.Current().(*state.Active)
	if !ok {
		return
	}
	if sessionID == active.DrawerID {
		// The drawer cannot guess.
		return
	}
	player, ok := r.players[sessionID]
	if !ok {
		return
	}
	text := strings.TrimSpace(rawGuess)
	if text == "" {
		return
	}
	if g, guessed := active.Guesses[sessionID]; guessed && g.Correct {
		// Already guessed correctly this round.
		return
	}

	player.TotalGuesses++
	latency := r.deps.Clock().Sub(active.StartedAt)

	if !strings.EqualFold(text, active.Word) {
		if r.deps.Metrics != nil {
			r.deps.Metrics.GuessSubmitted(false, latency)
		}
		r.send(sessionID, network.MsgTypeGuessResult, network.GuessResultPayload{Correct: false})
		return
	}

	score := scoreForLatency(latency)
	player.Score += score
	player.CorrectGuesses++
	if player.CorrectGuesses == 1 || latency < player.FastestGuess {
		player.FastestGuess = latency
	}
	if drawer, exists := r.players[active.DrawerID]; exists {
		drawer.Score += drawerBonus
	}
	active.Guesses[sessionID] = state.Guess{Correct: true, Score: score, Latency: latency}

	if r.deps.Metrics != nil {
		r.deps.Metrics.GuessSubmitted(true, latency)
	}

	r.broadcast(network.MsgTypePlayerGuessed, network.PlayerGuessedPayload{PlayerID: sessionID, Name: player.Name})
	r.send(sessionID, network.MsgTypeGuessResult, network.GuessResultPayload{Correct: true, Score: score})

	// All-guessed is decided synchronously inside this event, on the
	// post-update table, so two guesses can never both end the round.
	if r.allGuessedLocked(active) {
		r.endRoundLocked(ReasonAllGuessed)
	} else {
		r.broadcastRoomStateLocked()
	}
}

// HostResetGame clears all game-scoped state but keeps the membership.
// Non-host resets are dropped.
func (r *Room) HostResetGame(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if sessionID != r.hostID {
		return
	}

	r.cancelTimersLocked()

	for _, p := range r.players {
		p.Score = 0
		p.Draws = 0
		p.TotalGuesses = 0
		p.CorrectGuesses = 0
		p.FastestGuess = 0
		p.Strokes = 0
	}
	r.usedWords = make(map[string]bool)
	r.category = ""
	r.roundDuration = r.cfg.DefaultRoundDuration
	r.roundsPlayed = 0
	r.gameStartedAt = time.Time{}
	// Strand any timer callback that fired but has not run yet.
	r.roundSeq++

	if r.machine.Phase() != state.PhaseIdle {
		if err := r.machine.Transition(state.Idle{}); err != nil {
			logger.Log.Errorf("Room %s reset transition failed: %v", r.Code, err)
		}
	}

	logger.Log.Infof("Room %s game reset by host %s", r.Code, sessionID)

	r.broadcastRaw(network.MsgTypeGameReset, nil)
	r.broadcastRoomStateLocked()
}

// Chat relays a trimmed chat line (200 chars max) to the whole room.
func (r *Room) Chat(sessionID, rawText string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.players[sessionID]
	if !ok {
		return
	}
	text := strings.TrimSpace(rawText)
	if text == "" {
		return
	}
	if runes := []rune(text); len(runes) > maxChatLength {
		text = string(runes[:maxChatLength])
	}

	r.broadcast(network.MsgTypeChatMessage, network.ChatPayload{
		Name: p.Name,
		Text: text,
		Ts:   r.deps.Clock().UnixMilli(),
	})
}

// RelayDrawLine forwards a validated stroke from the active drawer to
// everyone else, untouched.
func (r *Room) RelayDrawLine(sessionID string, data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	active, ok := r.machine.Current().(*state.Active)
	if !ok || active.DrawerID != sessionID {
		return
	}
	if p, exists := r.players[sessionID]; exists {
		p.Strokes++
	}
	r.deps.Broadcaster.BroadcastToRoomExcept(r.Code, sessionID, network.MsgTypeDrawLine, data)
}

// RelayClearCanvas forwards a canvas clear from the active drawer.
func (r *Room) RelayClearCanvas(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	active, ok := r.machine.Current().(*state.Active)
	if !ok || active.DrawerID != sessionID {
		return
	}
	r.deps.Broadcaster.BroadcastToRoomExcept(r.Code, sessionID, network.MsgTypeClearCanvas, nil)
}

// --- round lifecycle ---

// startRoundLocked activates a round for the given drawer and word. The
// word must already be committed to usedWords; callers have validated the
// phase.
func (r *Room) startRoundLocked(drawer *Player, word string) {
	drawer.Draws++
	r.roundSeq++
	seq := r.roundSeq

	started := r.deps.Clock()
	if r.gameStartedAt.IsZero() {
		r.gameStartedAt = started
	}

	timerID := r.deps.Scheduler.Schedule(r.roundDuration, func() { r.onRoundTimer(seq) })

	next := &state.Active{
		Word:      word,
		DrawerID:  drawer.ID,
		StartedAt: started,
		Duration:  r.roundDuration,
		TimerID:   timerID,
		Guesses:   make(map[string]state.Guess),
	}
	if err := r.machine.Transition(next); err != nil {
		r.deps.Scheduler.Cancel(timerID)
		logger.Log.Errorf("Room %s cannot start round from phase %s: %v", r.Code, r.machine.Phase(), err)
		return
	}

	if r.deps.Metrics != nil {
		r.deps.Metrics.RoundStarted()
	}
	logger.Log.Infof("Room %s round started, drawer %s (%s), category %s, duration %v",
		r.Code, drawer.ID, drawer.Name, r.category, r.roundDuration)

	r.broadcast(network.MsgTypeRoundStarted, network.RoundStartedPayload{
		DrawerID:        drawer.ID,
		DrawerName:      drawer.Name,
		Category:        r.category,
		RoundDurationMs: r.roundDuration.Milliseconds(),
		RoundEndTime:    started.Add(r.roundDuration).UnixMilli(),
	})
	// The secret word goes to the drawer only.
	r.send(drawer.ID, network.MsgTypeYourWord, network.YourWordPayload{Word: word})
	r.broadcastRoomStateLocked()
}

// onRoundTimer is the round-duration timer callback.
func (r *Room) onRoundTimer(seq uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// The round this timer was armed for may be long gone.
	if _, ok := r.machine.Current().(*state.Active); !ok || seq != r.roundSeq {
		return
	}
	r.endRoundLocked(ReasonTimeUp)
}

// endRoundLocked tallies and clears the active round, then either finishes
// the game or arms the auto-advance timer. Calling it in any other phase is
// a no-op, which makes duplicate end triggers harmless.
func (r *Room) endRoundLocked(reason string) {
	active, ok := r.machine.Current().(*state.Active)
	if !ok {
		return
	}

	r.deps.Scheduler.Cancel(active.TimerID)
	r.roundsPlayed++

	drawerName := ""
	if drawer, exists := r.players[active.DrawerID]; exists {
		drawerName = drawer.Name
	}

	results := make([]network.RoundResult, 0, len(r.joinOrder))
	for _, id := range r.joinOrder {
		p := r.players[id]
		roundScore := 0
		if g, guessed := active.Guesses[id]; guessed && g.Correct {
			roundScore = g.Score
		}
		results = append(results, network.RoundResult{
			ID:         id,
			Name:       p.Name,
			RoundScore: roundScore,
			TotalScore: p.Score,
		})
	}

	logger.Log.Infof("Room %s round ended (%s), word was %s", r.Code, reason, active.Word)

	r.broadcast(network.MsgTypeRoundEnded, network.RoundEndedPayload{
		Word:       active.Word,
		Category:   r.category,
		DrawerID:   active.DrawerID,
		DrawerName: drawerName,
		Results:    results,
		Reason:     reason,
	})

	done := len(r.players) > 0
	for _, p := range r.players {
		if p.Draws < r.cfg.MaxDrawsPerPlayer {
			done = false
			break
		}
	}

	if done {
		if err := r.machine.Transition(state.EndedPendingNext{}); err == nil {
			r.finishGameLocked()
		}
	} else {
		next := r.pickNextDrawerLocked()
		nextID, nextName := "", ""
		if next != nil {
			nextID, nextName = next.ID, next.Name
		}

		seq := r.roundSeq
		timerID := r.deps.Scheduler.Schedule(r.cfg.AutoAdvanceDelay, func() { r.onAutoAdvance(seq) })
		if err := r.machine.Transition(state.EndedPendingNext{NextDrawerID: nextID, TimerID: timerID}); err != nil {
			r.deps.Scheduler.Cancel(timerID)
			logger.Log.Errorf("Room %s cannot enter tally phase: %v", r.Code, err)
			return
		}

		r.broadcast(network.MsgTypeReadyForNextRound, network.ReadyForNextRoundPayload{
			NextDrawerID:   nextID,
			NextDrawerName: nextName,
		})
	}

	r.broadcastRoomStateLocked()
}

// onAutoAdvance is the auto-advance timer callback: it re-validates the
// phase it was armed in, then either starts the next round or stalls the
// room with an error everyone sees.
func (r *Room) onAutoAdvance(seq uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.machine.Current().(state.EndedPendingNext); !ok || seq != r.roundSeq {
		return
	}

	if r.category == "" || !words.IsCategory(r.category) {
		r.stallLocked("No category set or words missing for next round.")
		return
	}
	drawer := r.pickNextDrawerLocked()
	if drawer == nil {
		r.stallLocked("No drawer available for next round.")
		return
	}
	word, ok := words.Pick(r.category, r.usedWords)
	if !ok {
		r.stallLocked("No words left in this category.")
		return
	}

	r.startRoundLocked(drawer, word)
}

// stallLocked reports a scheduling fault to the whole room and leaves it
// idle until the host resets.
func (r *Room) stallLocked(message string) {
	logger.Log.Warnf("Room %s stalled: %s", r.Code, message)
	r.broadcast(network.MsgTypeRoundError, network.ErrorPayload{Message: message})
	if err := r.machine.Transition(state.Idle{}); err != nil {
		logger.Log.Errorf("Room %s stall transition failed: %v", r.Code, err)
	}
}

func (r *Room) allGuessedLocked(active *state.Active) bool {
	for _, id := range r.joinOrder {
		if id == active.DrawerID {
			continue
		}
		if g, ok := active.Guesses[id]; !ok || !g.Correct {
			return false
		}
	}
	return true
}

// finishGameLocked moves the room to the terminal game-over phase and
// emits the leaderboard and fun stats.
func (r *Room) finishGameLocked() {
	if err := r.machine.Transition(state.GameOver{}); err != nil {
		logger.Log.Errorf("Room %s cannot finish game: %v", r.Code, err)
		return
	}

	leaderboard := make([]network.LeaderboardEntry, 0, len(r.joinOrder))
	for _, id := range r.joinOrder {
		p := r.players[id]
		leaderboard = append(leaderboard, network.LeaderboardEntry{ID: id, Name: p.Name, Score: p.Score})
	}
	// Ascending, so the winner is announced last.
	sort.SliceStable(leaderboard, func(i, j int) bool { return leaderboard[i].Score < leaderboard[j].Score })

	fastest, mostGuesses, mostCorrect, mostStrokes := r.funStatsLocked()

	r.broadcast(network.MsgTypeGameOver, network.GameOverPayload{
		Leaderboard:    leaderboard,
		MaxDraws:       r.cfg.MaxDrawsPerPlayer,
		FastestGuessMs: fastest,
		MostGuesses:    mostGuesses,
		MostCorrect:    mostCorrect,
		MostStrokes:    mostStrokes,
	})

	logger.Log.Infof("Room %s game over after %d rounds", r.Code, r.roundsPlayed)

	if r.deps.OnGameOver != nil {
		record := r.buildRecordLocked(leaderboard, fastest, mostGuesses, mostCorrect, mostStrokes)
		go r.deps.OnGameOver(record)
	}
}

// funStatsLocked computes the end-of-game extras. Ties go to the earliest
// joiner; a stat with no qualifying positive value is nil.
func (r *Room) funStatsLocked() (fastest, mostGuesses, mostCorrect, mostStrokes *network.FunStat) {
	for _, id := range r.joinOrder {
		p := r.players[id]

		if p.CorrectGuesses > 0 && (fastest == nil || p.FastestGuess.Milliseconds() < fastest.Value) {
			fastest = &network.FunStat{PlayerID: id, Name: p.Name, Value: p.FastestGuess.Milliseconds()}
		}
		if p.TotalGuesses > 0 && (mostGuesses == nil || int64(p.TotalGuesses) > mostGuesses.Value) {
			mostGuesses = &network.FunStat{PlayerID: id, Name: p.Name, Value: int64(p.TotalGuesses)}
		}
		if p.CorrectGuesses > 0 && (mostCorrect == nil || int64(p.CorrectGuesses) > mostCorrect.Value) {
			mostCorrect = &network.FunStat{PlayerID: id, Name: p.Name, Value: int64(p.CorrectGuesses)}
		}
		if p.Strokes > 0 && (mostStrokes == nil || int64(p.Strokes) > mostStrokes.Value) {
			mostStrokes = &network.FunStat{PlayerID: id, Name: p.Name, Value: int64(p.Strokes)}
		}
	}
	return
}

func (r *Room) buildRecordLocked(leaderboard []network.LeaderboardEntry, fastest, mostGuesses, mostCorrect, mostStrokes *network.FunStat) models.GameRecord {
	results := make([]models.PlayerResult, 0, len(leaderboard))
	for _, entry := range leaderboard {
		draws := 0
		if p, ok := r.players[entry.ID]; ok {
			draws = p.Draws
		}
		results = append(results, models.PlayerResult{
			PlayerID: entry.ID,
			Name:     entry.Name,
			Score:    entry.Score,
			Draws:    draws,
		})
	}

	now := r.deps.Clock()
	duration := 0
	if !r.gameStartedAt.IsZero() {
		duration = int(now.Sub(r.gameStartedAt) / time.Second)
	}

	return models.GameRecord{
		RoomCode:        r.Code,
		Category:        r.category,
		Rounds:          r.roundsPlayed,
		DurationSeconds: duration,
		Leaderboard:     results,
		FastestGuessMs:  toModelStat(fastest),
		MostGuesses:     toModelStat(mostGuesses),
		MostCorrect:     toModelStat(mostCorrect),
		MostStrokes:     toModelStat(mostStrokes),
		FinishedAt:      now,
	}
}

func toModelStat(s *network.FunStat) *models.FunStat {
	if s == nil {
		return nil
	}
	return &models.FunStat{PlayerID: s.PlayerID, Name: s.Name, Value: s.Value}
}

// cancelTimersLocked cancels whichever timer the current phase owns.
func (r *Room) cancelTimersLocked() {
	switch cur := r.machine.Current().(type) {
	case *state.Active:
		r.deps.Scheduler.Cancel(cur.TimerID)
	case state.EndedPendingNext:
		r.deps.Scheduler.Cancel(cur.TimerID)
	}
}

// --- notifications ---

func (r *Room) snapshotLocked() network.RoomStatePayload {
	players := make([]network.PlayerSummary, 0, len(r.joinOrder))
	for _, id := range r.joinOrder {
		p := r.players[id]
		players = append(players, network.PlayerSummary{ID: id, Name: p.Name, Score: p.Score, Draws: p.Draws})
	}

	drawerID := ""
	roundActive := false
	if active, ok := r.machine.Current().(*state.Active); ok {
		drawerID = active.DrawerID
		roundActive = true
	}

	return network.RoomStatePayload{
		RoomCode:        r.Code,
		Players:         players,
		HostID:          r.hostID,
		DrawerID:        drawerID,
		RoundActive:     roundActive,
		CurrentCategory: r.category,
	}
}

func (r *Room) broadcastRoomStateLocked() {
	r.broadcast(network.MsgTypeRoomState, r.snapshotLocked())
}

func (r *Room) broadcast(msgID uint16, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		logger.Log.Errorf("Room %s failed to marshal message %d: %v", r.Code, msgID, err)
		return
	}
	r.broadcastRaw(msgID, data)
}

func (r *Room) broadcastRaw(msgID uint16, data []byte) {
	r.deps.Broadcaster.BroadcastToRoom(r.Code, msgID, data)
}

func (r *Room) send(sessionID string, msgID uint16, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		logger.Log.Errorf("Room %s failed to marshal message %d: %v", r.Code, msgID, err)
		return
	}
	r.deps.Broadcaster.SendToSession(sessionID, msgID, data)
}
