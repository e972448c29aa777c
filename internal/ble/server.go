package ble

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/riegerindustries/diskomator/internal/config"
	"github.com/riegerindustries/diskomator/internal/ota"
	"github.com/riegerindustries/diskomator/internal/signal"
)

// EventKind tags what kind of ATT event the Controller delivered.
type EventKind int

const (
	EventConnect EventKind = iota
	EventDisconnect
	EventRead
	EventWrite
)

// Event is one GAP/ATT occurrence the Controller black box hands to the
// server's event loop.
type Event struct {
	Kind  EventKind
	Char  UUID128
	Value []byte
}

// Reply is what the event loop hands back to the Controller for a Read or
// Write event: either a success value/ack, or an ATT-level error.
type Reply struct {
	Value []byte
	Err   ATTError
	OK    bool
}

// Controller is the black-box host BLE stack: advertising, accepting a
// connection, and delivering/acking ATT events. A real implementation
// wraps whatever the platform's BLE host exposes; softgatt and
// bletransport below are this repo's two drivable stand-ins.
type Controller interface {
	Advertise(ctx context.Context, adv, scanResp []byte) error
	Events() <-chan Event
	Reply(ev Event, reply Reply)
	Notify(char UUID128, value []byte)
	RSSI() (int, error)
}

// connState is the GATT event loop's internal state machine, mirroring
// spec.md §4.5's Idle -> Advertising -> Connected -> Idle cycle.
type connState int

const (
	stateIdle connState = iota
	stateAdvertising
	stateConnected
)

// Server runs the single-connection GATT event loop: config hot-reload and
// the OTA command/data/status protocol.
type Server struct {
	logger       *log.Logger
	ctrl         Controller
	configSignal *signal.Signal[config.AppConfig]
	newOTA       func() *ota.State

	state          connState
	currentConfig  []byte
	configVersion  uint32
	otaState       *ota.State
	lastOTAControl byte
	lastOTAHash    []byte
}

// NewServer wires a GATT server that publishes config changes onto
// configSignal for the spectral/renderer pipeline to pick up, and builds a
// fresh ota.State via newOTA on every new connection.
func NewServer(logger *log.Logger, ctrl Controller, configSignal *signal.Signal[config.AppConfig], initial config.AppConfig, newOTA func() *ota.State) (*Server, error) {
	var encoded, err = config.Encode(initial)
	if err != nil {
		return nil, fmt.Errorf("ble: encode initial config: %w", err)
	}

	return &Server{ //nolint:exhaustruct
		logger:        logger,
		ctrl:          ctrl,
		configSignal:  configSignal,
		newOTA:        newOTA,
		state:         stateIdle,
		currentConfig: encoded,
		configVersion: initial.ConfigVersion,
	}, nil
}

// Run advertises and processes events until ctx is canceled, matching the
// single-threaded cooperative event loop the spec describes: one event
// handled at a time, no lock needed around OTA state.
func (s *Server) Run(ctx context.Context) error {
	if err := s.ctrl.Advertise(ctx, AdvData(), ScanResponseData()); err != nil {
		return fmt.Errorf("ble: advertise: %w", err)
	}

	s.state = stateAdvertising

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-s.ctrl.Events():
			if !ok {
				return nil
			}

			s.handle(ctx, ev)
		}
	}
}

func (s *Server) handle(ctx context.Context, ev Event) {
	switch ev.Kind {
	case EventConnect:
		s.state = stateConnected
		s.otaState = s.newOTA()
	case EventDisconnect:
		if s.otaState != nil {
			s.otaState.Abort(ctx)
		}

		s.otaState = nil
		s.state = stateAdvertising
	case EventRead:
		s.ctrl.Reply(ev, s.handleRead(ev))
	case EventWrite:
		s.ctrl.Reply(ev, s.handleWrite(ctx, ev))
	}
}

func (s *Server) handleRead(ev Event) Reply {
	switch ev.Char {
	case ConfigVersionCharUUID:
		return Reply{OK: true, Value: u32le(s.configVersion)} //nolint:exhaustruct
	case ConfigDataCharUUID:
		return Reply{OK: true, Value: s.currentConfig} //nolint:exhaustruct
	case OTAStatusCharUUID:
		return Reply{OK: true, Value: []byte{byte(s.otaStatus())}} //nolint:exhaustruct
	case OTAControlCharUUID:
		return Reply{OK: true, Value: []byte{s.lastOTAControl}} //nolint:exhaustruct
	case OTAHashCharUUID:
		return Reply{OK: true, Value: s.lastOTAHash} //nolint:exhaustruct
	default:
		return Reply{OK: false, Err: ErrUnlikelyError} //nolint:exhaustruct
	}
}

func (s *Server) otaStatus() ota.Status {
	if s.otaState == nil {
		return ota.StatusIdle
	}

	return s.otaState.Status()
}

func (s *Server) handleWrite(ctx context.Context, ev Event) Reply {
	switch ev.Char {
	case ConfigDataCharUUID:
		return s.handleConfigWrite(ev.Value)
	case OTAControlCharUUID:
		return s.handleOTAControl(ctx, ev.Value)
	case OTAHashCharUUID:
		return s.handleOTAHash(ev.Value)
	case OTADataCharUUID:
		return s.handleOTAData(ctx, ev.Value)
	default:
		return Reply{OK: false, Err: ErrUnlikelyError} //nolint:exhaustruct
	}
}

func (s *Server) handleConfigWrite(value []byte) Reply {
	var decoded, err = config.Decode(value)
	if err != nil {
		s.logger.Warn("ble: rejected config write", "err", err)

		return Reply{OK: false, Err: ErrValueNotAllowed} //nolint:exhaustruct
	}

	if err := decoded.Validate(); err != nil {
		s.logger.Warn("ble: rejected config write", "err", err)

		return Reply{OK: false, Err: ErrValueNotAllowed} //nolint:exhaustruct
	}

	s.currentConfig = append([]byte(nil), value...)
	s.configVersion = decoded.ConfigVersion
	s.configSignal.Set(decoded)

	return Reply{OK: true} //nolint:exhaustruct
}

func (s *Server) handleOTAControl(ctx context.Context, value []byte) Reply {
	if len(value) != 1 {
		return Reply{OK: false, Err: ErrInvalidAttributeValueLength} //nolint:exhaustruct
	}

	switch ota.Command(value[0]) {
	case ota.CommandBegin:
		if err := s.otaState.Begin(ctx); err != nil {
			return Reply{OK: false, Err: ErrValueNotAllowed} //nolint:exhaustruct
		}
	case ota.CommandCommit:
		if err := s.otaState.Commit(ctx); err != nil {
			return Reply{OK: false, Err: ErrUnlikelyError} //nolint:exhaustruct
		}
	case ota.CommandAbort:
		s.otaState.Abort(ctx)
	default:
		return Reply{OK: false, Err: ErrValueNotAllowed} //nolint:exhaustruct
	}

	s.lastOTAControl = value[0]

	return Reply{OK: true} //nolint:exhaustruct
}

func (s *Server) handleOTAHash(value []byte) Reply {
	if err := s.otaState.SetExpectedHash(value); err != nil {
		return Reply{OK: false, Err: ErrInvalidAttributeValueLength} //nolint:exhaustruct
	}

	s.lastOTAHash = append([]byte(nil), value...)

	return Reply{OK: true} //nolint:exhaustruct
}

func (s *Server) handleOTAData(ctx context.Context, value []byte) Reply {
	if len(value) > MaxOTADataLen {
		return Reply{OK: false, Err: ErrInvalidAttributeValueLength} //nolint:exhaustruct
	}

	if err := s.otaState.WriteData(ctx, value); err != nil {
		return Reply{OK: false, Err: ErrUnlikelyError} //nolint:exhaustruct
	}

	return Reply{OK: true} //nolint:exhaustruct
}

func u32le(v uint32) []byte {
	return []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
}
