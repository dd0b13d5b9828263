// models/models.go
package models

import (
	"github.com/wfunc/boidserver/geom"
)

// BoidState 单个boid的快照
type BoidState struct {
	ID         string   `json:"id"`
	Position   geom.Vec `json:"position"`
	Velocity   geom.Vec `json:"velocity"`
	Color      string   `json:"color"`
	Segregated bool     `json:"segregated"`
}

// PredatorState 捕食者快照
type PredatorState struct {
	ID         string   `json:"id"`
	PlayerID   string   `json:"playerId"`
	PlayerName string   `json:"playerName"`
	Position   geom.Vec `json:"position"`
	Color      string   `json:"color"`
}

// GameState 每个tick推送给房间内所有连接的完整世界状态
type GameState struct {
	RoomID      string          `json:"roomId"`
	GameStarted bool            `json:"gameStarted"`
	Boids       []BoidState     `json:"boids"`
	Predators   []PredatorState `json:"predators"`
}

// LobbyInfo 大厅列表中展示的房间摘要
type LobbyInfo struct {
	RoomID        string `json:"roomId"`
	RoomName      string `json:"roomName"`
	HostName      string `json:"hostName"`
	PlayerCount   int    `json:"playerCount"`
	MaxPlayers    int    `json:"maxPlayers"`
	BoidGroups    int    `json:"boidGroups"`
	BoidsPerGroup int    `json:"boidsPerGroup"`
	Status        string `json:"status"`
}
