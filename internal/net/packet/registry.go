package packet

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// SessionState represents the session's current protocol phase.
type SessionState int

const (
	StateHandshake     SessionState = iota // awaiting CVersion
	StateVersionOK                         // awaiting CEnterWorld
	StateInWorld                           // playing
	StateDisconnecting
)

func (s SessionState) String() string {
	switch s {
	case StateHandshake:
		return "Handshake"
	case StateVersionOK:
		return "VersionOK"
	case StateInWorld:
		return "InWorld"
	case StateDisconnecting:
		return "Disconnecting"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// HandlerFunc is the callback signature for packet handlers. sess is the
// *net.Session; it is opaque here to keep packet free of net.
type HandlerFunc func(sess any, r *Reader)

var (
	ErrEmptyPacket = errors.New("empty packet")
	ErrWrongState  = errors.New("opcode not allowed in session state")
)

// stateMask has bit s set for every SessionState s a handler accepts.
type stateMask uint8

func maskOf(states []SessionState) stateMask {
	var m stateMask
	for _, s := range states {
		m |= 1 << uint(s)
	}
	return m
}

func (m stateMask) allows(s SessionState) bool { return m&(1<<uint(s)) != 0 }

type route struct {
	fn     HandlerFunc
	states stateMask
}

// Registry routes opcodes to handlers, gated by session state.
type Registry struct {
	routes [256]*route
	log    *zap.Logger
}

func NewRegistry(log *zap.Logger) *Registry {
	return &Registry{log: log}
}

// Register routes opcode to fn in the given session states. A later
// registration for the same opcode replaces the earlier one.
func (reg *Registry) Register(opcode byte, states []SessionState, fn HandlerFunc) {
	reg.routes[opcode] = &route{fn: fn, states: maskOf(states)}
}

// Has reports whether a handler is registered for opcode.
func (reg *Registry) Has(opcode byte) bool {
	return reg.routes[opcode] != nil
}

// Dispatch runs the handler for the opcode in data[0]. Unknown opcodes are
// ignored; an opcode sent in the wrong state returns ErrWrongState.
func (reg *Registry) Dispatch(sess any, state SessionState, data []byte) error {
	if len(data) == 0 {
		return ErrEmptyPacket
	}
	opcode := data[0]

	rt := reg.routes[opcode]
	if rt == nil {
		reg.log.Debug("unknown opcode", zap.Uint8("opcode", opcode), zap.Stringer("state", state))
		return nil
	}
	if !rt.states.allows(state) {
		reg.log.Warn("opcode not allowed in state",
			zap.Uint8("opcode", opcode),
			zap.Stringer("state", state),
		)
		return fmt.Errorf("opcode 0x%02X: %w (%s)", opcode, ErrWrongState, state)
	}
	return reg.call(rt.fn, sess, NewReader(data), opcode)
}

// call runs fn and turns a handler panic into an error.
func (reg *Registry) call(fn HandlerFunc, sess any, r *Reader, opcode byte) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			reg.log.Error("handler panic recovered",
				zap.Uint8("opcode", opcode),
				zap.Any("panic", rec),
				zap.Stack("stack"),
			)
			err = fmt.Errorf("opcode 0x%02X: handler panic: %v", opcode, rec)
		}
	}()
	fn(sess, r)
	return nil
}
