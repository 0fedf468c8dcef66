package room

import (
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/wfunc/pictureduel/models"
	"github.com/wfunc/pictureduel/network"
	"github.com/wfunc/pictureduel/state"
	"github.com/wfunc/pictureduel/words"
)

// --- test doubles ---

type sentMsg struct {
	roomCode string
	except   string // set for except-sender broadcasts
	session  string // set for unicasts
	msgID    uint16
	data     []byte
}

type fakeBroadcaster struct {
	mu   sync.Mutex
	msgs []sentMsg
}

func (b *fakeBroadcaster) BroadcastToRoom(roomCode string, msgID uint16, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.msgs = append(b.msgs, sentMsg{roomCode: roomCode, msgID: msgID, data: data})
	return nil
}

func (b *fakeBroadcaster) BroadcastToRoomExcept(roomCode, exceptSessionID string, msgID uint16, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.msgs = append(b.msgs, sentMsg{roomCode: roomCode, except: exceptSessionID, msgID: msgID, data: data})
	return nil
}

func (b *fakeBroadcaster) SendToSession(sessionID string, msgID uint16, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.msgs = append(b.msgs, sentMsg{session: sessionID, msgID: msgID, data: data})
	return nil
}

func (b *fakeBroadcaster) count(msgID uint16) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, m := range b.msgs {
		if m.msgID == msgID {
			n++
		}
	}
	return n
}

// last returns the most recent message with the given ID, broadcast or
// unicast.
func (b *fakeBroadcaster) last(msgID uint16) (sentMsg, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := len(b.msgs) - 1; i >= 0; i-- {
		if b.msgs[i].msgID == msgID {
			return b.msgs[i], true
		}
	}
	return sentMsg{}, false
}

func (b *fakeBroadcaster) lastTo(sessionID string, msgID uint16) (sentMsg, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := len(b.msgs) - 1; i >= 0; i-- {
		if b.msgs[i].msgID == msgID && b.msgs[i].session == sessionID {
			return b.msgs[i], true
		}
	}
	return sentMsg{}, false
}

type fakeTask struct {
	id    int64
	delay time.Duration
	run   func()
}

// fakeScheduler captures scheduled tasks; tests fire them by hand.
type fakeScheduler struct {
	mu     sync.Mutex
	nextID int64
	tasks  map[int64]*fakeTask
	order  []int64
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{tasks: make(map[int64]*fakeTask)}
}

func (s *fakeScheduler) Schedule(delay time.Duration, run func()) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := s.nextID
	s.tasks[id] = &fakeTask{id: id, delay: delay, run: run}
	s.order = append(s.order, id)
	return id
}

func (s *fakeScheduler) Cancel(taskID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.tasks[taskID]
	delete(s.tasks, taskID)
	return ok
}

func (s *fakeScheduler) pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// fireNext runs the oldest still-pending task.
func (s *fakeScheduler) fireNext(t *testing.T) {
	t.Helper()
	s.mu.Lock()
	var task *fakeTask
	for len(s.order) > 0 {
		id := s.order[0]
		s.order = s.order[1:]
		if pending, ok := s.tasks[id]; ok {
			task = pending
			delete(s.tasks, id)
			break
		}
	}
	s.mu.Unlock()

	if task == nil {
		t.Fatal("no pending task to fire")
	}
	task.run()
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type testEnv struct {
	room      *Room
	bcast     *fakeBroadcaster
	scheduler *fakeScheduler
	clock     *testClock
	records   chan models.GameRecord
}

func newTestEnv(cfg Config) *testEnv {
	env := &testEnv{
		bcast:     &fakeBroadcaster{},
		scheduler: newFakeScheduler(),
		clock:     &testClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)},
		records:   make(chan models.GameRecord, 1),
	}
	env.room = NewRoom("ABCD", cfg, Deps{
		Broadcaster: env.bcast,
		Scheduler:   env.scheduler,
		Clock:       env.clock.Now,
		OnGameOver:  func(rec models.GameRecord) { env.records <- rec },
	})
	return env
}

func (e *testEnv) join(t *testing.T, sessionID, name string) string {
	t.Helper()
	final, err := e.room.Join(sessionID, name)
	if err != nil {
		t.Fatalf("join %s: %v", sessionID, err)
	}
	return final
}

// startRound has the host start a round and returns the secret word and
// drawer, taken from the resulting notifications.
func (e *testEnv) startRound(t *testing.T, hostID, category string, durationMs int64) (word, drawerID string) {
	t.Helper()
	e.room.HostStartRound(hostID, category, durationMs)
	return e.currentRound(t)
}

// currentRound reads the latest round's word and drawer off the wire.
func (e *testEnv) currentRound(t *testing.T) (word, drawerID string) {
	t.Helper()
	started, ok := e.bcast.last(network.MsgTypeRoundStarted)
	if !ok {
		if errMsg, sent := e.bcast.last(network.MsgTypeRoundError); sent {
			var p network.ErrorPayload
			_ = json.Unmarshal(errMsg.data, &p)
			t.Fatalf("round did not start: %s", p.Message)
		}
		t.Fatal("round did not start and no error was sent")
	}
	var sp network.RoundStartedPayload
	if err := json.Unmarshal(started.data, &sp); err != nil {
		t.Fatalf("decode round_started: %v", err)
	}

	unicast, ok := e.bcast.lastTo(sp.DrawerID, network.MsgTypeYourWord)
	if !ok {
		t.Fatalf("drawer %s never received the word", sp.DrawerID)
	}
	var wp network.YourWordPayload
	if err := json.Unmarshal(unicast.data, &wp); err != nil {
		t.Fatalf("decode your_word: %v", err)
	}
	return wp.Word, sp.DrawerID
}

func decodeLast[T any](t *testing.T, b *fakeBroadcaster, msgID uint16) T {
	t.Helper()
	msg, ok := b.last(msgID)
	if !ok {
		t.Fatalf("message %d never sent", msgID)
	}
	var v T
	if err := json.Unmarshal(msg.data, &v); err != nil {
		t.Fatalf("decode message %d: %v", msgID, err)
	}
	return v
}

// --- membership ---

func TestJoinMakesFirstPlayerHost(t *testing.T) {
	env := newTestEnv(DefaultConfig())

	env.join(t, "p1", "Alice")
	env.join(t, "p2", "Bob")

	rs := decodeLast[network.RoomStatePayload](t, env.bcast, network.MsgTypeRoomState)
	if rs.HostID != "p1" {
		t.Errorf("host = %s, want p1", rs.HostID)
	}
	if len(rs.Players) != 2 {
		t.Fatalf("players = %d, want 2", len(rs.Players))
	}
	if rs.Players[0].Name != "Alice" || rs.Players[1].Name != "Bob" {
		t.Errorf("unexpected join order: %s, %s", rs.Players[0].Name, rs.Players[1].Name)
	}
	if rs.RoundActive {
		t.Error("new room should not have an active round")
	}
}

func TestJoinRejectsBlankName(t *testing.T) {
	env := newTestEnv(DefaultConfig())
	if _, err := env.room.Join("p1", "   "); err != ErrNameRequired {
		t.Fatalf("err = %v, want ErrNameRequired", err)
	}
}

func TestJoinDeduplicatesNames(t *testing.T) {
	env := newTestEnv(DefaultConfig())

	env.join(t, "p1", "Alice")
	got := env.join(t, "p2", "alice")
	if got != "alice (2)" {
		t.Errorf("deduped name = %q, want %q", got, "alice (2)")
	}
	got = env.join(t, "p3", "ALICE")
	if got != "ALICE (3)" {
		t.Errorf("deduped name = %q, want %q", got, "ALICE (3)")
	}
}

func TestJoinTruncatesLongNames(t *testing.T) {
	env := newTestEnv(DefaultConfig())
	got := env.join(t, "p1", "  "+strings.Repeat("x", 30)+"  ")
	if got != strings.Repeat("x", 20) {
		t.Errorf("name = %q, want 20 x's", got)
	}
}

func TestRejoinKeepsScore(t *testing.T) {
	env := newTestEnv(DefaultConfig())
	env.join(t, "p1", "Alice")
	env.room.mu.Lock()
	env.room.players["p1"].Score = 7
	env.room.mu.Unlock()

	got := env.join(t, "p1", "Alice Prime")
	if got != "Alice Prime" {
		t.Errorf("name = %q", got)
	}
	env.room.mu.Lock()
	score := env.room.players["p1"].Score
	count := len(env.room.players)
	env.room.mu.Unlock()
	if score != 7 {
		t.Errorf("score after rejoin = %d, want 7", score)
	}
	if count != 1 {
		t.Errorf("players = %d, want 1", count)
	}
}

func TestLeaveTransfersHost(t *testing.T) {
	env := newTestEnv(DefaultConfig())
	env.join(t, "p1", "Alice")
	env.join(t, "p2", "Bob")

	if empty := env.room.Leave("p1"); empty {
		t.Fatal("room should not be empty")
	}
	rs := decodeLast[network.RoomStatePayload](t, env.bcast, network.MsgTypeRoomState)
	if rs.HostID != "p2" {
		t.Errorf("host = %s, want p2", rs.HostID)
	}

	if empty := env.room.Leave("p2"); !empty {
		t.Fatal("room should report empty after last leave")
	}
}

// --- round start ---

func TestHostStartRoundValidation(t *testing.T) {
	env := newTestEnv(DefaultConfig())
	env.join(t, "p1", "Alice")
	env.join(t, "p2", "Bob")

	cases := []struct {
		name     string
		session  string
		category string
		want     string
	}{
		{"non-host", "p2", "animals", "Only the host can start rounds."},
		{"bad category", "p1", "nonsense", "Please select a valid category."},
	}
	for _, tc := range cases {
		env.room.HostStartRound(tc.session, tc.category, 45000)
		msg, ok := env.bcast.lastTo(tc.session, network.MsgTypeRoundError)
		if !ok {
			t.Fatalf("%s: no round_error sent", tc.name)
		}
		var p network.ErrorPayload
		if err := json.Unmarshal(msg.data, &p); err != nil {
			t.Fatalf("%s: decode: %v", tc.name, err)
		}
		if p.Message != tc.want {
			t.Errorf("%s: message = %q, want %q", tc.name, p.Message, tc.want)
		}
	}
	if env.room.Phase() != state.PhaseIdle {
		t.Errorf("phase = %s, want idle", env.room.Phase())
	}
}

func TestHostStartRoundActivates(t *testing.T) {
	env := newTestEnv(DefaultConfig())
	env.join(t, "p1", "Alice")
	env.join(t, "p2", "Bob")

	word, drawerID := env.startRound(t, "p1", "animals", 60000)
	if word == "" {
		t.Fatal("drawer got an empty word")
	}
	if drawerID != "p1" {
		t.Errorf("drawer = %s, want p1 (earliest joiner)", drawerID)
	}
	if env.room.Phase() != state.PhaseActive {
		t.Errorf("phase = %s, want active", env.room.Phase())
	}

	sp := decodeLast[network.RoundStartedPayload](t, env.bcast, network.MsgTypeRoundStarted)
	if sp.RoundDurationMs != 60000 {
		t.Errorf("duration = %d, want 60000", sp.RoundDurationMs)
	}
	if sp.RoundEndTime != env.clock.Now().Add(60*time.Second).UnixMilli() {
		t.Errorf("round end time = %d", sp.RoundEndTime)
	}
	if env.scheduler.pending() != 1 {
		t.Errorf("pending timers = %d, want 1", env.scheduler.pending())
	}
}

func TestHostStartRoundClampsDuration(t *testing.T) {
	for _, durationMs := range []int64{0, 3000, 500000, -1} {
		env := newTestEnv(DefaultConfig())
		env.join(t, "p1", "Alice")
		env.startRound(t, "p1", "animals", durationMs)

		sp := decodeLast[network.RoundStartedPayload](t, env.bcast, network.MsgTypeRoundStarted)
		if sp.RoundDurationMs != 45000 {
			t.Errorf("durationMs=%d: round duration = %d, want default 45000", durationMs, sp.RoundDurationMs)
		}
	}
}

func TestHostStartRoundRejectsWhileActive(t *testing.T) {
	env := newTestEnv(DefaultConfig())
	env.join(t, "p1", "Alice")
	env.startRound(t, "p1", "animals", 45000)

	env.room.HostStartRound("p1", "animals", 45000)
	msg, ok := env.bcast.lastTo("p1", network.MsgTypeRoundError)
	if !ok {
		t.Fatal("no round_error sent")
	}
	var p network.ErrorPayload
	_ = json.Unmarshal(msg.data, &p)
	if p.Message != "Round already active." {
		t.Errorf("message = %q", p.Message)
	}
}

// --- guessing ---

func TestSubmitGuessScoresByLatency(t *testing.T) {
	env := newTestEnv(DefaultConfig())
	env.join(t, "p1", "Alice")
	env.join(t, "p2", "Bob")
	env.join(t, "p3", "Carol")

	word, drawerID := env.startRound(t, "p1", "animals", 45000)
	if drawerID != "p1" {
		t.Fatalf("drawer = %s", drawerID)
	}

	// A correct guess 3 s in earns full points plus the drawer bonus,
	// trailing whitespace and case notwithstanding.
	env.clock.Advance(3 * time.Second)
	env.room.SubmitGuess("p2", "  "+strings.ToUpper(word)+"  ")

	gr := decodeLast[network.GuessResultPayload](t, env.bcast, network.MsgTypeGuessResult)
	if !gr.Correct || gr.Score != 10 {
		t.Errorf("guess result = %+v, want correct with score 10", gr)
	}
	pg := decodeLast[network.PlayerGuessedPayload](t, env.bcast, network.MsgTypePlayerGuessed)
	if pg.PlayerID != "p2" {
		t.Errorf("player_guessed for %s, want p2", pg.PlayerID)
	}

	// 17 s in the score has decayed one step.
	env.clock.Advance(14 * time.Second)
	env.room.SubmitGuess("p3", word)
	gr = decodeLast[network.GuessResultPayload](t, env.bcast, network.MsgTypeGuessResult)
	if !gr.Correct || gr.Score != 9 {
		t.Errorf("late guess result = %+v, want correct with score 9", gr)
	}

	// Everyone has guessed, so the round ends inside the same event.
	re := decodeLast[network.RoundEndedPayload](t, env.bcast, network.MsgTypeRoundEnded)
	if re.Reason != ReasonAllGuessed {
		t.Errorf("reason = %q, want %q", re.Reason, ReasonAllGuessed)
	}
	if re.Word != word {
		t.Errorf("revealed word = %q, want %q", re.Word, word)
	}
	for _, res := range re.Results {
		switch res.ID {
		case "p1":
			if res.TotalScore != 2 {
				t.Errorf("drawer total = %d, want 2 (one bonus per guesser)", res.TotalScore)
			}
		case "p2":
			if res.RoundScore != 10 || res.TotalScore != 10 {
				t.Errorf("p2 result = %+v", res)
			}
		case "p3":
			if res.RoundScore != 9 || res.TotalScore != 9 {
				t.Errorf("p3 result = %+v", res)
			}
		}
	}
}

func TestSubmitGuessWrongAnswer(t *testing.T) {
	env := newTestEnv(DefaultConfig())
	env.join(t, "p1", "Alice")
	env.join(t, "p2", "Bob")
	env.startRound(t, "p1", "animals", 45000)

	env.room.SubmitGuess("p2", "definitely not the word")
	gr := decodeLast[network.GuessResultPayload](t, env.bcast, network.MsgTypeGuessResult)
	if gr.Correct {
		t.Error("wrong guess reported correct")
	}
	if env.bcast.count(network.MsgTypePlayerGuessed) != 0 {
		t.Error("wrong guess should not announce player_guessed")
	}
	if env.room.Phase() != state.PhaseActive {
		t.Errorf("phase = %s, want active", env.room.Phase())
	}
}

func TestSubmitGuessIgnoresDrawerAndDuplicates(t *testing.T) {
	env := newTestEnv(DefaultConfig())
	env.join(t, "p1", "Alice")
	env.join(t, "p2", "Bob")
	env.join(t, "p3", "Carol")
	word, _ := env.startRound(t, "p1", "animals", 45000)

	env.room.SubmitGuess("p1", word) // drawer
	if env.bcast.count(network.MsgTypeGuessResult) != 0 {
		t.Error("drawer guess should be dropped silently")
	}

	env.room.SubmitGuess("p2", word)
	before := env.bcast.count(network.MsgTypePlayerGuessed)
	env.room.SubmitGuess("p2", word) // already correct
	if env.bcast.count(network.MsgTypePlayerGuessed) != before {
		t.Error("repeat correct guess should be dropped silently")
	}
}

// --- round end ---

func TestRoundEndsOnTimeUp(t *testing.T) {
	env := newTestEnv(DefaultConfig())
	env.join(t, "p1", "Alice")
	env.join(t, "p2", "Bob")
	env.startRound(t, "p1", "animals", 45000)

	env.scheduler.fireNext(t)

	re := decodeLast[network.RoundEndedPayload](t, env.bcast, network.MsgTypeRoundEnded)
	if re.Reason != ReasonTimeUp {
		t.Errorf("reason = %q, want %q", re.Reason, ReasonTimeUp)
	}
	if env.room.Phase() != state.PhaseEndedPendingNext {
		t.Errorf("phase = %s, want ended_pending_next", env.room.Phase())
	}
	rn := decodeLast[network.ReadyForNextRoundPayload](t, env.bcast, network.MsgTypeReadyForNextRound)
	if rn.NextDrawerID != "p2" {
		t.Errorf("next drawer = %s, want p2", rn.NextDrawerID)
	}
}

func TestStaleRoundTimerIsIgnored(t *testing.T) {
	env := newTestEnv(DefaultConfig())
	env.join(t, "p1", "Alice")
	env.join(t, "p2", "Bob")
	word, _ := env.startRound(t, "p1", "animals", 45000)

	// Capture the armed round timer as if it had already been dequeued,
	// then end the round through the last guess.
	env.scheduler.mu.Lock()
	var firedLate func()
	for _, task := range env.scheduler.tasks {
		firedLate = task.run
	}
	env.scheduler.mu.Unlock()

	env.room.SubmitGuess("p2", word)
	if got := env.bcast.count(network.MsgTypeRoundEnded); got != 1 {
		t.Fatalf("round_ended count = %d, want 1", got)
	}

	firedLate()
	if got := env.bcast.count(network.MsgTypeRoundEnded); got != 1 {
		t.Errorf("stale timer ended the round again, round_ended count = %d", got)
	}
}

func TestDrawerLeavingEndsRound(t *testing.T) {
	env := newTestEnv(DefaultConfig())
	env.join(t, "p1", "Alice")
	env.join(t, "p2", "Bob")
	env.join(t, "p3", "Carol")
	env.startRound(t, "p1", "animals", 45000)

	env.room.Leave("p1")

	re := decodeLast[network.RoundEndedPayload](t, env.bcast, network.MsgTypeRoundEnded)
	if re.Reason != ReasonDrawerLeft {
		t.Errorf("reason = %q, want %q", re.Reason, ReasonDrawerLeft)
	}
	rs := decodeLast[network.RoomStatePayload](t, env.bcast, network.MsgTypeRoomState)
	if rs.HostID != "p2" {
		t.Errorf("host = %s, want p2", rs.HostID)
	}
}

func TestAutoAdvanceStartsNextRound(t *testing.T) {
	env := newTestEnv(DefaultConfig())
	env.join(t, "p1", "Alice")
	env.join(t, "p2", "Bob")
	env.startRound(t, "p1", "animals", 45000)

	env.scheduler.fireNext(t) // round timer: time up
	env.scheduler.fireNext(t) // auto-advance

	if env.room.Phase() != state.PhaseActive {
		t.Fatalf("phase = %s, want active", env.room.Phase())
	}
	sp := decodeLast[network.RoundStartedPayload](t, env.bcast, network.MsgTypeRoundStarted)
	if sp.DrawerID != "p2" {
		t.Errorf("second round drawer = %s, want p2", sp.DrawerID)
	}
	if env.bcast.count(network.MsgTypeRoundStarted) != 2 {
		t.Errorf("round_started count = %d, want 2", env.bcast.count(network.MsgTypeRoundStarted))
	}
}

func TestAutoAdvanceStallsWhenWordsRunOut(t *testing.T) {
	env := newTestEnv(DefaultConfig())
	env.join(t, "p1", "Alice")
	env.join(t, "p2", "Bob")
	env.startRound(t, "p1", "animals", 45000)
	env.scheduler.fireNext(t) // time up, tally armed

	// Burn the rest of the category before the countdown elapses.
	env.room.mu.Lock()
	for {
		if _, ok := words.Pick("animals", env.room.usedWords); !ok {
			break
		}
	}
	env.room.mu.Unlock()

	env.scheduler.fireNext(t)

	p := decodeLast[network.ErrorPayload](t, env.bcast, network.MsgTypeRoundError)
	if p.Message != "No words left in this category." {
		t.Errorf("message = %q", p.Message)
	}
	if env.room.Phase() != state.PhaseIdle {
		t.Errorf("phase = %s, want idle", env.room.Phase())
	}
}

// --- game over ---

func TestGameOverAtDrawCap(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxDrawsPerPlayer = 1
	env := newTestEnv(cfg)
	env.join(t, "p1", "Alice")
	env.join(t, "p2", "Bob")

	// Round 1: Alice draws, Bob answers in 3 s for 10 points plus the
	// drawer bonus for Alice.
	word, drawerID := env.startRound(t, "p1", "animals", 45000)
	if drawerID != "p1" {
		t.Fatalf("round 1 drawer = %s", drawerID)
	}
	env.room.RelayDrawLine("p1", []byte(`{"x0":0,"y0":0,"x1":1,"y1":1}`))
	env.clock.Advance(3 * time.Second)
	env.room.SubmitGuess("p2", word)

	env.scheduler.fireNext(t) // auto-advance into round 2

	// Round 2: Bob draws, Alice misses once then answers at 20 s for 8.
	word, drawerID = env.currentRound(t)
	if drawerID != "p2" {
		t.Fatalf("round 2 drawer = %s", drawerID)
	}
	env.room.SubmitGuess("p1", "wrong")
	env.clock.Advance(20 * time.Second)
	env.room.SubmitGuess("p1", word)

	// Totals: Alice 1+8 = 9, Bob 10 plus his own round-2 drawer bonus = 11.
	over := decodeLast[network.GameOverPayload](t, env.bcast, network.MsgTypeGameOver)
	if env.room.Phase() != state.PhaseGameOver {
		t.Fatalf("phase = %s, want game_over", env.room.Phase())
	}
	if len(over.Leaderboard) != 2 {
		t.Fatalf("leaderboard size = %d", len(over.Leaderboard))
	}
	if over.Leaderboard[0].ID != "p1" || over.Leaderboard[0].Score != 9 {
		t.Errorf("leaderboard[0] = %+v, want p1 with 9", over.Leaderboard[0])
	}
	if over.Leaderboard[1].ID != "p2" || over.Leaderboard[1].Score != 11 {
		t.Errorf("leaderboard[1] = %+v, want p2 with 11", over.Leaderboard[1])
	}
	if over.MaxDraws != 1 {
		t.Errorf("maxDraws = %d, want 1", over.MaxDraws)
	}

	if over.FastestGuessMs == nil || over.FastestGuessMs.PlayerID != "p2" || over.FastestGuessMs.Value != 3000 {
		t.Errorf("fastest guess = %+v, want p2 at 3000ms", over.FastestGuessMs)
	}
	if over.MostGuesses == nil || over.MostGuesses.PlayerID != "p1" || over.MostGuesses.Value != 2 {
		t.Errorf("most guesses = %+v, want p1 with 2", over.MostGuesses)
	}
	// Both have one correct guess; the earliest joiner wins the tie.
	if over.MostCorrect == nil || over.MostCorrect.PlayerID != "p1" {
		t.Errorf("most correct = %+v, want p1", over.MostCorrect)
	}
	if over.MostStrokes == nil || over.MostStrokes.PlayerID != "p1" || over.MostStrokes.Value != 1 {
		t.Errorf("most strokes = %+v, want p1 with 1", over.MostStrokes)
	}

	select {
	case rec := <-env.records:
		if rec.RoomCode != "ABCD" || rec.Rounds != 2 {
			t.Errorf("record = %+v", rec)
		}
		winner, ok := rec.Winner()
		if !ok || winner.PlayerID != "p2" {
			t.Errorf("winner = %+v", winner)
		}
	case <-time.After(time.Second):
		t.Fatal("game record never delivered")
	}
}

func TestStartAfterGameOverIsRejected(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxDrawsPerPlayer = 1
	env := newTestEnv(cfg)
	env.join(t, "p1", "Alice")
	env.startRound(t, "p1", "animals", 45000)
	env.scheduler.fireNext(t) // lone player, one draw: straight to game over

	if env.room.Phase() != state.PhaseGameOver {
		t.Fatalf("phase = %s, want game_over", env.room.Phase())
	}

	env.room.HostStartRound("p1", "animals", 45000)
	msg, ok := env.bcast.lastTo("p1", network.MsgTypeRoundError)
	if !ok {
		t.Fatal("no round_error sent")
	}
	var p network.ErrorPayload
	_ = json.Unmarshal(msg.data, &p)
	if p.Message != "Game has finished. Start a new game." {
		t.Errorf("message = %q", p.Message)
	}
}

// --- reset ---

func TestHostResetGame(t *testing.T) {
	env := newTestEnv(DefaultConfig())
	env.join(t, "p1", "Alice")
	env.join(t, "p2", "Bob")
	word, _ := env.startRound(t, "p1", "animals", 60000)
	env.room.SubmitGuess("p2", word)

	env.room.HostResetGame("p2") // not the host
	if env.bcast.count(network.MsgTypeGameReset) != 0 {
		t.Fatal("non-host reset should be dropped")
	}

	env.room.HostResetGame("p1")
	if env.bcast.count(network.MsgTypeGameReset) != 1 {
		t.Fatal("host reset should broadcast game_reset")
	}
	if env.room.Phase() != state.PhaseIdle {
		t.Errorf("phase = %s, want idle", env.room.Phase())
	}
	rs := decodeLast[network.RoomStatePayload](t, env.bcast, network.MsgTypeRoomState)
	for _, p := range rs.Players {
		if p.Score != 0 || p.Draws != 0 {
			t.Errorf("player %s not zeroed: %+v", p.ID, p)
		}
	}

	// Fresh game: timers are gone and a new category is accepted.
	if env.scheduler.pending() != 0 {
		t.Errorf("pending timers after reset = %d, want 0", env.scheduler.pending())
	}
	env.startRound(t, "p1", "objects", 45000)
}

// --- chat and drawing ---

func TestChatTrimsAndTruncates(t *testing.T) {
	env := newTestEnv(DefaultConfig())
	env.join(t, "p1", "Alice")

	env.room.Chat("p1", "   ")
	if env.bcast.count(network.MsgTypeChatMessage) != 0 {
		t.Fatal("blank chat should be dropped")
	}

	env.room.Chat("stranger", "hello")
	if env.bcast.count(network.MsgTypeChatMessage) != 0 {
		t.Fatal("non-member chat should be dropped")
	}

	env.room.Chat("p1", "  "+strings.Repeat("a", 250)+"  ")
	cp := decodeLast[network.ChatPayload](t, env.bcast, network.MsgTypeChatMessage)
	if len(cp.Text) != 200 {
		t.Errorf("chat length = %d, want 200", len(cp.Text))
	}
	if cp.Name != "Alice" {
		t.Errorf("chat name = %q", cp.Name)
	}
	if cp.Ts != env.clock.Now().UnixMilli() {
		t.Errorf("chat ts = %d", cp.Ts)
	}
}

func TestDrawRelayOnlyFromActiveDrawer(t *testing.T) {
	env := newTestEnv(DefaultConfig())
	env.join(t, "p1", "Alice")
	env.join(t, "p2", "Bob")

	stroke := []byte(`{"x0":1,"y0":2,"x1":3,"y1":4,"color":"#000"}`)

	env.room.RelayDrawLine("p1", stroke) // no round yet
	if env.bcast.count(network.MsgTypeDrawLine) != 0 {
		t.Fatal("stroke relayed outside a round")
	}

	env.startRound(t, "p1", "animals", 45000)

	env.room.RelayDrawLine("p2", stroke) // not the drawer
	if env.bcast.count(network.MsgTypeDrawLine) != 0 {
		t.Fatal("non-drawer stroke relayed")
	}

	env.room.RelayDrawLine("p1", stroke)
	msg, ok := env.bcast.last(network.MsgTypeDrawLine)
	if !ok {
		t.Fatal("drawer stroke not relayed")
	}
	if msg.except != "p1" {
		t.Errorf("stroke relayed except %q, want p1", msg.except)
	}
	if string(msg.data) != string(stroke) {
		t.Error("stroke payload altered in relay")
	}

	env.room.RelayClearCanvas("p1")
	if _, ok := env.bcast.last(network.MsgTypeClearCanvas); !ok {
		t.Fatal("clear canvas not relayed")
	}
}
