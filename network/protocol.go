package network

// Message IDs. 1xx are client commands, 2xx are drawing relays (both
// directions), 3xx are server notifications.
const (
	MsgTypeHeartbeat = 1

	MsgTypeSetName        = 101
	MsgTypeJoinRoom       = 102
	MsgTypeChatMessage    = 103
	MsgTypeHostStartRound = 104
	MsgTypeSubmitGuess    = 105
	MsgTypeHostResetGame  = 106

	MsgTypeDrawLine    = 201
	MsgTypeClearCanvas = 202

	MsgTypeJoinedRoom        = 301
	MsgTypeJoinError         = 302
	MsgTypeRoomState         = 303
	MsgTypeRoundStarted      = 304
	MsgTypeYourWord          = 305
	MsgTypeGuessResult       = 306
	MsgTypePlayerGuessed     = 307
	MsgTypeRoundEnded        = 308
	MsgTypeReadyForNextRound = 309
	MsgTypeGameOver          = 310
	MsgTypeRoundError        = 311
	MsgTypeGameReset         = 312
)

// --- client commands ---

type SetNameRequest struct {
	Name string `json:"name"`
}

type JoinRoomRequest struct {
	RoomCode string `json:"roomCode"`
	Name     string `json:"name"`
}

type ChatRequest struct {
	Text string `json:"text"`
}

type HostStartRoundRequest struct {
	Category   string `json:"category"`
	DurationMs int64  `json:"durationMs"`
}

type SubmitGuessRequest struct {
	Guess string `json:"guess"`
}

// DrawLineMessage is relayed untouched; the pointer fields let the boundary
// reject payloads with missing or non-numeric coordinates.
type DrawLineMessage struct {
	X0    *float64 `json:"x0"`
	Y0    *float64 `json:"y0"`
	X1    *float64 `json:"x1"`
	Y1    *float64 `json:"y1"`
	Color string   `json:"color,omitempty"`
}

func (m *DrawLineMessage) Valid() bool {
	return m.X0 != nil && m.Y0 != nil && m.X1 != nil && m.Y1 != nil
}

// --- server notifications ---

type JoinedRoomPayload struct {
	RoomCode string `json:"roomCode"`
	Name     string `json:"name"`
}

// ErrorPayload is the body of both join_error and round_error messages.
type ErrorPayload struct {
	Message string `json:"message"`
}

type PlayerSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
	Draws int    `json:"draws"`
}

type RoomStatePayload struct {
	RoomCode        string          `json:"roomCode"`
	Players         []PlayerSummary `json:"players"`
	HostID          string          `json:"hostId"`
	DrawerID        string          `json:"drawerId"`
	RoundActive     bool            `json:"roundActive"`
	CurrentCategory string          `json:"currentCategory"`
}

type RoundStartedPayload struct {
	DrawerID        string `json:"drawerId"`
	DrawerName      string `json:"drawerName"`
	Category        string `json:"category"`
	RoundDurationMs int64  `json:"roundDurationMs"`
	RoundEndTime    int64  `json:"roundEndTime"`
}

type YourWordPayload struct {
	Word string `json:"word"`
}

type GuessResultPayload struct {
	Correct bool `json:"correct"`
	Score   int  `json:"score,omitempty"`
}

type PlayerGuessedPayload struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
}

type RoundResult struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	RoundScore int    `json:"roundScore"`
	TotalScore int    `json:"totalScore"`
}

type RoundEndedPayload struct {
	Word       string        `json:"word"`
	Category   string        `json:"category"`
	DrawerID   string        `json:"drawerId"`
	DrawerName string        `json:"drawerName"`
	Results    []RoundResult `json:"results"`
	Reason     string        `json:"reason"`
}

type ReadyForNextRoundPayload struct {
	NextDrawerID   string `json:"nextDrawerId"`
	NextDrawerName string `json:"nextDrawerName"`
}

type LeaderboardEntry struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// FunStat names the player who tops one end-of-game statistic.
type FunStat struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
	Value    int64  `json:"value"`
}

type GameOverPayload struct {
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
	MaxDraws    int                `json:"maxDraws"`

	// Each stat is omitted when no player has a qualifying positive value.
	FastestGuessMs *FunStat `json:"fastestGuessMs,omitempty"`
	MostGuesses    *FunStat `json:"mostGuesses,omitempty"`
	MostCorrect    *FunStat `json:"mostCorrect,omitempty"`
	MostStrokes    *FunStat `json:"mostStrokes,omitempty"`
}

type ChatPayload struct {
	Name string `json:"name"`
	Text string `json:"text"`
	Ts   int64  `json:"ts"`
}
