package network

import (
	"encoding/json"
	"fmt"

	"github.com/wfunc/boidserver/geom"
	"github.com/wfunc/boidserver/models"
)

// Client -> server message types.
const (
	MsgCreateLobby = "create_lobby"
	MsgJoinLobby   = "join_lobby"
	MsgGetLobbies  = "get_lobbies"
	MsgInput       = "input"
	MsgStartGame   = "start_game"
	MsgLeaveLobby  = "leave_lobby"
)

// Server -> client message types.
const (
	MsgLobbyCreated = "lobby_created"
	MsgLobbyJoined  = "lobby_joined"
	MsgPlayerJoined = "player_joined"
	MsgPlayerLeft   = "player_left"
	MsgLobbyList    = "lobby_list"
	MsgGameStarted  = "game_started"
	MsgGameState    = "game_state"
	MsgError        = "error"
)

// Envelope frames every client message: the type tag is decoded once at the
// boundary, then the payload is decoded into the matching request struct.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func DecodeEnvelope(data []byte) (Envelope, error) {
	if len(data) == 0 {
		return Envelope{}, fmt.Errorf("empty message")
	}
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, err
	}
	if env.Type == "" {
		return Envelope{}, fmt.Errorf("message missing type")
	}
	return env, nil
}

// DecodePayload unmarshals an envelope's payload into the request type for
// its message kind.
func DecodePayload[T any](env Envelope) (T, error) {
	var out T
	if len(env.Payload) == 0 {
		return out, fmt.Errorf("empty payload for type %q", env.Type)
	}
	err := json.Unmarshal(env.Payload, &out)
	return out, err
}

// --- 客户端请求 ---

type CreateLobbyRequest struct {
	PlayerName    string `json:"playerName"`
	RoomName      string `json:"roomName,omitempty"`
	BoidGroups    int    `json:"boidGroups"`
	BoidsPerGroup int    `json:"boidsPerGroup"`
	MaxPlayers    int    `json:"maxPlayers"`
}

type JoinLobbyRequest struct {
	PlayerName string `json:"playerName"`
	RoomID     string `json:"roomId"`
}

type InputRequest struct {
	Position geom.Vec `json:"position"`
}

// --- 服务端消息 ---

type LobbyCreatedMsg struct {
	Type       string           `json:"type"`
	Lobby      models.LobbyInfo `json:"lobby"`
	PlayerID   string           `json:"playerId"`
	PredatorID string           `json:"predatorId"`
}

type LobbyJoinedMsg struct {
	Type       string           `json:"type"`
	Lobby      models.LobbyInfo `json:"lobby"`
	PlayerID   string           `json:"playerId"`
	PredatorID string           `json:"predatorId"`
}

type PlayerJoinedMsg struct {
	Type       string `json:"type"`
	PlayerID   string `json:"playerId"`
	PredatorID string `json:"predatorId"`
}

type PlayerLeftMsg struct {
	Type     string `json:"type"`
	PlayerID string `json:"playerId"`
}

type LobbyListMsg struct {
	Type    string             `json:"type"`
	Lobbies []models.LobbyInfo `json:"lobbies"`
}

type GameStartedMsg struct {
	Type string `json:"type"`
}

type GameStateMsg struct {
	Type      string           `json:"type"`
	GameState models.GameState `json:"gameState"`
}

type ErrorMsg struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

func NewErrorMsg(msg string) ErrorMsg {
	return ErrorMsg{Type: MsgError, Error: msg}
}
