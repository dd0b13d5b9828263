package main

import (
	"encoding/json"
	"log"
	"math"
	"net/url"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/websocket"
)

// send wraps a payload in the {type, payload} envelope and writes it as one
// text frame.
func send(c *websocket.Conn, msgType string, payload interface{}) error {
	env := map[string]interface{}{"type": msgType}
	if payload != nil {
		env["payload"] = payload
	}
	data, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return c.WriteMessage(websocket.TextMessage, data)
}

func main() {
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	u := url.URL{Scheme: "ws", Host: "localhost:3001", Path: "/ws"}
	log.Printf("Connecting to %s", u.String())

	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("Dial failed: %v", err)
	}
	defer c.Close()

	done := make(chan struct{})

	// Read loop: print lifecycle messages, sample the state stream.
	go func() {
		defer close(done)
		states := 0
		for {
			_, message, err := c.ReadMessage()
			if err != nil {
				log.Println("Read error:", err)
				return
			}
			var head struct {
				Type string `json:"type"`
			}
			if err := json.Unmarshal(message, &head); err != nil {
				log.Printf("Received invalid message: %s", string(message))
				continue
			}
			if head.Type == "game_state" {
				// 60 Hz is too chatty to print every frame
				states++
				if states%60 == 0 {
					log.Printf("<- RECV game_state #%d (%d bytes)", states, len(message))
				}
				continue
			}
			log.Printf("<- RECV (%s): %s", head.Type, string(message))
		}
	}()

	log.Println("Sending create_lobby request...")
	if err := send(c, "create_lobby", map[string]interface{}{
		"playerName":    "smoke",
		"roomName":      "Smoke Test",
		"boidGroups":    3,
		"boidsPerGroup": 10,
		"maxPlayers":    4,
	}); err != nil {
		log.Println("Write error:", err)
		return
	}

	time.Sleep(200 * time.Millisecond)
	log.Println("Sending start_game request...")
	if err := send(c, "start_game", nil); err != nil {
		log.Println("Write error:", err)
		return
	}

	// Sweep the predator in a circle to stir the flock.
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	angle := 0.0
	for {
		select {
		case <-done:
			return
		case <-interrupt:
			log.Println("Interrupt received, closing connection.")
			err := c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			if err != nil {
				log.Println("Write close error:", err)
			}
			select {
			case <-done:
			case <-time.After(time.Second):
			}
			return
		case <-ticker.C:
			angle += 0.1
			pos := map[string]float64{
				"x": 400 + 200*math.Cos(angle),
				"y": 300 + 150*math.Sin(angle),
			}
			if err := send(c, "input", map[string]interface{}{"position": pos}); err != nil {
				log.Println("Write error:", err)
				return
			}
		}
	}
}
