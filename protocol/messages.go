package protocol

const (
	TypeNewGameRequest                  = "NewGameRequest"
	TypeJoinGameRequest                 = "JoinGameRequest"
	TypeStartGameRequest                = "StartGameRequest"
	TypeFinishedWordRequest             = "FinishedWordRequest"
	TypeJoinGameResponse                = "JoinGameResponse"
	TypeGameDoesNotExistsResponse       = "GameDoesNotExistsResponse"
	TypePlayerNameAlreadyExistsResponse = "PlayerNameAlreadyExistsResponse"
	TypePlayerJoinedNotification        = "PlayerJoinedNotification"
	TypePlayerLeftNotification          = "PlayerLeftNotification"
	TypeUpdateCountdownNotification     = "UpdateCountdownNotification"
	TypePlayerFinishedWord              = "PlayerFinishedWord"
	TypeGameFinishedNotification        = "GameFinishedNotification"
)

// Message is implemented by every struct of the wire catalogue. Type is the
// value of the messageType tag.
type Message interface {
	Type() string
}

type NewGameRequest struct {
	PlayerName string `json:"playerName"`
}

type JoinGameRequest struct {
	GameID     int    `json:"gameId"`
	PlayerName string `json:"playerName"`
}

type StartGameRequest struct{}

type FinishedWordRequest struct {
	NewWpmEntry int `json:"newWpmEntry"`
}

type JoinGameResponse struct {
	GameID           int       `json:"gameId"`
	PlayerName       string    `json:"playerName"`
	CurrentGameState GameState `json:"currentGameState"`
}

type GameDoesNotExistsResponse struct{}

type PlayerNameAlreadyExistsResponse struct{}

type PlayerJoinedNotification struct {
	CurrentGameState GameState `json:"currentGameState"`
}

type PlayerLeftNotification struct {
	CurrentGameState GameState `json:"currentGameState"`
}

type UpdateCountdownNotification struct {
	Countdown int `json:"countdown"`
}

type PlayerFinishedWord struct {
	GameStateAfterFinishedWord GameState `json:"gameStateAfterFinishedWord"`
}

type GameFinishedNotification struct {
	FinishedGameState GameState `json:"finishedGameState"`
}

func (NewGameRequest) Type() string                  { return TypeNewGameRequest }
func (JoinGameRequest) Type() string                 { return TypeJoinGameRequest }
func (StartGameRequest) Type() string                { return TypeStartGameRequest }
func (FinishedWordRequest) Type() string             { return TypeFinishedWordRequest }
func (JoinGameResponse) Type() string                { return TypeJoinGameResponse }
func (GameDoesNotExistsResponse) Type() string       { return TypeGameDoesNotExistsResponse }
func (PlayerNameAlreadyExistsResponse) Type() string { return TypePlayerNameAlreadyExistsResponse }
func (PlayerJoinedNotification) Type() string        { return TypePlayerJoinedNotification }
func (PlayerLeftNotification) Type() string          { return TypePlayerLeftNotification }
func (UpdateCountdownNotification) Type() string     { return TypeUpdateCountdownNotification }
func (PlayerFinishedWord) Type() string              { return TypePlayerFinishedWord }
func (GameFinishedNotification) Type() string        { return TypeGameFinishedNotification }
