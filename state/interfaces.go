// state/interfaces.go
package state

// RoomContext is the slice of a room a lifecycle state may touch. Defined
// here to break the import cycle between room and state.
type RoomContext interface {
	GetID() string
	ChangeState(newState State) error
}

// Simulation is what the playing state drives each tick. *game.Game
// satisfies it.
type Simulation interface {
	StartGame()
	Update()
	IsComplete() bool
}
