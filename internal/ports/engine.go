package ports

import "context"

// EnginePort defines the write side of the remote execution engine: sealed
// transaction frames submitted under an opcode. Submit is fire-and-forget;
// confirmation arrives on the event stream, never as a return value, so a
// nil error only means the transaction left the client.
type EnginePort interface {
	// Submit sends one sealed transaction frame to the engine.
	Submit(ctx context.Context, opCode int64, data []byte) error
}

// EventHandler receives the engine's asynchronous event stream. Adapters
// must deliver events one at a time in arrival order.
type EventHandler func(opCode int64, data []byte)
