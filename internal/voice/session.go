package voice

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mitchellh/mapstructure"

	"github.com/hoangnt/moneytalk/internal/models"
)

// Tool names the remote side may invoke.
const (
	ToolLogTransaction = "logTransaction"
	ToolTransferMoney  = "transferMoney"
)

// Recorder is the slice of the transaction book the session can drive.
// These two entrypoints are the only shared state between a voice session
// and the rest of the application.
type Recorder interface {
	Log(ctx context.Context, amount float64, typ models.TransactionType, wallet models.WalletType, category, description string) (models.Transaction, error)
	Transfer(ctx context.Context, amount float64, from, to models.WalletType, description string) error
}

// Session bridges one client conversation to the remote voice endpoint.
//
// Lifecycle: connecting -> open -> closed, with error reachable from
// connecting (microphone denied) or open (transport failure). Closing is
// idempotent; an errored session stays put until the client goes away.
type Session struct {
	client   Conn
	remote   Conn
	recorder Recorder
	sched    *Scheduler
	log      *slog.Logger

	// clientMu and remoteMu serialize writers on each leg; both loops
	// write to both conns.
	clientMu sync.Mutex
	remoteMu sync.Mutex

	stateMu sync.Mutex
	state   State

	closeOnce sync.Once
	done      chan struct{}
}

// NewSession wires a client leg to a remote leg over the given recorder.
// The clock drives playback scheduling of inbound speech frames.
func NewSession(client, remote Conn, recorder Recorder, clock Clock, log *slog.Logger) *Session {
	if log == nil {
		log = slog.Default()
	}
	return &Session{
		client:   client,
		remote:   remote,
		recorder: recorder,
		sched:    NewScheduler(clock),
		log:      log,
		state:    StateConnecting,
		done:     make(chan struct{}),
	}
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return s.state
}

// Run pumps both legs until either side ends the conversation. It blocks
// until the session is closed or errored out.
func (s *Session) Run(ctx context.Context) {
	s.setState(StateOpen)
	s.notifyState(StateOpen)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		s.clientLoop(ctx)
	}()
	go func() {
		defer wg.Done()
		s.remoteLoop(ctx)
	}()

	select {
	case <-ctx.Done():
		s.Close()
	case <-s.done:
	}
	wg.Wait()
}

// clientLoop forwards captured microphone frames upstream as they arrive,
// one frame per message, no batching.
func (s *Session) clientLoop(ctx context.Context) {
	for {
		var msg ClientMessage
		if err := s.client.ReadJSON(&msg); err != nil {
			if s.State() == StateOpen {
				s.log.Debug("client leg ended", "error", err)
			}
			s.Close()
			return
		}

		switch msg.Type {
		case ClientAudio:
			out := upstreamMessage{RealtimeInput: &RealtimeInput{
				Media: Blob{Data: msg.Audio, MimeType: fmt.Sprintf("audio/pcm;rate=%d", InputSampleRate)},
			}}
			if err := s.writeRemote(out); err != nil {
				s.fail(MsgConnectError, err)
				return
			}
		case ClientMicError:
			// The client could not acquire its microphone. The session
			// parks in the error state until the client closes the view.
			s.setState(StateError)
			s.notifyError(MsgMicrophoneError)
			s.remote.Close()
		case ClientClose:
			s.Close()
			return
		}
	}
}

// remoteLoop is the single writer of the playback schedule: inbound speech
// frames, interruptions, and tool calls are all handled here, so the
// cursor and the active-frame set never race.
func (s *Session) remoteLoop(ctx context.Context) {
	for {
		var msg remoteMessage
		if err := s.remote.ReadJSON(&msg); err != nil {
			if s.State() == StateOpen {
				s.fail(MsgConnectError, err)
			}
			return
		}

		if sc := msg.ServerContent; sc != nil {
			if sc.Interrupted {
				s.interrupt()
			}
			if sc.ModelTurn != nil {
				for _, p := range sc.ModelTurn.Parts {
					if p.InlineData != nil {
						s.playFrame(p.InlineData.Data)
					}
				}
			}
		}

		if msg.ToolCall != nil {
			for _, fc := range msg.ToolCall.FunctionCalls {
				result := s.dispatch(ctx, fc)
				toolCallsTotal.WithLabelValues(fc.Name, result).Inc()
				resp := upstreamMessage{ToolResponse: &ToolResponse{
					FunctionResponses: []FunctionResponse{
						{ID: fc.ID, Name: fc.Name, Response: map[string]string{"result": result}},
					},
				}}
				if err := s.writeRemote(resp); err != nil {
					s.fail(MsgConnectError, err)
					return
				}
			}
		}
	}
}

// playFrame schedules one inbound speech frame and relays it downstream
// with its assigned start time.
func (s *Session) playFrame(pcm []byte) {
	duration := FrameDuration(pcm, OutputSampleRate)
	id, startAt := s.sched.Schedule(duration)
	s.writeClient(ServerMessage{
		Type:  ServerPlay,
		Frame: &PlaybackFrame{ID: id, Audio: pcm, StartAt: startAt, Duration: duration},
	})
}

// interrupt discards every scheduled frame and rewinds the playback
// cursor so the next inbound frame starts fresh.
func (s *Session) interrupt() {
	stopped := s.sched.Reset()
	s.log.Debug("playback interrupted", "stopped_frames", len(stopped))
	s.writeClient(ServerMessage{Type: ServerFlush})
}

// logTransactionArgs and transferMoneyArgs mirror the tool declarations
// the remote model was configured with.
type logTransactionArgs struct {
	Amount      float64 `mapstructure:"amount"`
	Type        string  `mapstructure:"type"`
	Wallet      string  `mapstructure:"wallet"`
	Category    string  `mapstructure:"category"`
	Description string  `mapstructure:"description"`
}

type transferMoneyArgs struct {
	Amount      float64 `mapstructure:"amount"`
	From        string  `mapstructure:"from"`
	To          string  `mapstructure:"to"`
	Description string  `mapstructure:"description"`
}

// dispatch executes one remote tool call synchronously and returns the
// result token for its correlated response. Every call is answered exactly
// once; unknown operations answer "error".
func (s *Session) dispatch(ctx context.Context, fc FunctionCall) string {
	switch fc.Name {
	case ToolLogTransaction:
		var args logTransactionArgs
		if err := mapstructure.Decode(fc.Args, &args); err != nil {
			s.log.Warn("bad tool call args", "tool", fc.Name, "error", err)
			return "error"
		}
		_, err := s.recorder.Log(ctx, args.Amount,
			models.TransactionType(args.Type), models.WalletType(args.Wallet),
			args.Category, args.Description)
		if err != nil {
			s.log.Warn("tool call failed", "tool", fc.Name, "error", err)
			return "error"
		}
		return "ok"
	case ToolTransferMoney:
		var args transferMoneyArgs
		if err := mapstructure.Decode(fc.Args, &args); err != nil {
			s.log.Warn("bad tool call args", "tool", fc.Name, "error", err)
			return "error"
		}
		err := s.recorder.Transfer(ctx, args.Amount,
			models.WalletType(args.From), models.WalletType(args.To), args.Description)
		if err != nil {
			s.log.Warn("tool call failed", "tool", fc.Name, "error", err)
			return "error"
		}
		return "ok"
	default:
		s.log.Warn("unknown tool call", "tool", fc.Name)
		return "error"
	}
}

// Close tears the session down: both legs are closed and the state moves
// to closed. Safe to call any number of times.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		if s.State() != StateError {
			s.setState(StateClosed)
		}
		s.remote.Close()
		s.client.Close()
		close(s.done)
	})
}

func (s *Session) fail(msg string, err error) {
	s.log.Error("voice session failed", "error", err)
	s.stateMu.Lock()
	alreadyDown := s.state == StateClosed || s.state == StateError
	s.state = StateError
	s.stateMu.Unlock()
	if !alreadyDown {
		s.notifyError(msg)
	}
	s.Close()
}

func (s *Session) setState(st State) {
	s.stateMu.Lock()
	s.state = st
	s.stateMu.Unlock()
}

func (s *Session) notifyState(st State) {
	s.writeClient(ServerMessage{Type: ServerState, State: st})
}

func (s *Session) notifyError(msg string) {
	s.writeClient(ServerMessage{Type: ServerError, State: StateError, Message: msg})
}

func (s *Session) writeClient(msg ServerMessage) {
	s.clientMu.Lock()
	defer s.clientMu.Unlock()
	if err := s.client.WriteJSON(msg); err != nil {
		s.log.Debug("client write failed", "error", err)
	}
}

func (s *Session) writeRemote(msg upstreamMessage) error {
	s.remoteMu.Lock()
	defer s.remoteMu.Unlock()
	return s.remote.WriteJSON(msg)
}
