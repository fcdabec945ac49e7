// Package voice bridges a duplex audio conversation between a connected
// client and the external conversational voice endpoint. Microphone frames
// stream up as they arrive; synthesized speech frames stream back down on
// a gap-free playback schedule; the remote side may invoke the ledger's
// mutation operations as tool calls, each answered with exactly one
// correlated response.
package voice

// Conn is the minimal duplex JSON transport the session needs on both
// legs. *websocket.Conn satisfies it directly.
type Conn interface {
	ReadJSON(v interface{}) error
	WriteJSON(v interface{}) error
	Close() error
}

// Session lifecycle states.
type State string

const (
	StateConnecting State = "connecting"
	StateOpen       State = "open"
	StateClosed     State = "closed"
	StateError      State = "error"
)

// Fixed user-facing failure messages.
const (
	MsgMicrophoneError = "Không thể truy cập microphone."
	MsgConnectError    = "Kết nối thất bại. Thử lại sau."
)

// Audio sample rates on the two legs, samples per second of 16-bit PCM.
const (
	InputSampleRate  = 16000
	OutputSampleRate = 24000
)

// Client message types (downstream -> session).
const (
	ClientAudio    = "audio"
	ClientMicError = "micError"
	ClientClose    = "close"
)

// Server message types (session -> downstream).
const (
	ServerState = "state"
	ServerPlay  = "play"
	ServerFlush = "flush"
	ServerError = "error"
)

// ClientMessage is one frame from the connected client. Audio carries raw
// 16 kHz PCM16 bytes (base64 on the wire, handled by encoding/json).
type ClientMessage struct {
	Type    string `json:"type"`
	Audio   []byte `json:"audio,omitempty"`
	Message string `json:"message,omitempty"`
}

// PlaybackFrame is a scheduled speech frame for the client to play.
// StartAt and Duration are seconds on the shared playback clock.
type PlaybackFrame struct {
	ID       int     `json:"id"`
	Audio    []byte  `json:"audio"`
	StartAt  float64 `json:"startAt"`
	Duration float64 `json:"duration"`
}

// ServerMessage is one frame to the connected client.
type ServerMessage struct {
	Type    string         `json:"type"`
	State   State          `json:"state,omitempty"`
	Frame   *PlaybackFrame `json:"frame,omitempty"`
	Message string         `json:"message,omitempty"`
}

// Remote leg wire shapes, mirroring the live endpoint's envelope.

// Blob is a typed media payload.
type Blob struct {
	Data     []byte `json:"data"`
	MimeType string `json:"mimeType"`
}

// RealtimeInput streams one captured microphone frame upstream.
type RealtimeInput struct {
	Media Blob `json:"media"`
}

// FunctionCall is a remote-initiated request to run a named local
// operation. ID correlates the eventual response.
type FunctionCall struct {
	ID   string                 `json:"id"`
	Name string                 `json:"name"`
	Args map[string]interface{} `json:"args"`
}

// ToolCall groups the function calls carried by one remote message.
type ToolCall struct {
	FunctionCalls []FunctionCall `json:"functionCalls"`
}

// FunctionResponse answers one FunctionCall, matched by ID.
type FunctionResponse struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Response map[string]string `json:"response"`
}

// ToolResponse carries correlated function results upstream.
type ToolResponse struct {
	FunctionResponses []FunctionResponse `json:"functionResponses"`
}

// ModelTurn holds the parts of one remote model turn.
type ModelTurn struct {
	Parts []struct {
		InlineData *Blob `json:"inlineData"`
	} `json:"parts"`
}

// ServerContent is the audio/interruption half of a remote message.
type ServerContent struct {
	ModelTurn   *ModelTurn `json:"modelTurn"`
	Interrupted bool       `json:"interrupted"`
}

// upstreamMessage is one frame sent to the remote endpoint.
type upstreamMessage struct {
	RealtimeInput *RealtimeInput `json:"realtimeInput,omitempty"`
	ToolResponse  *ToolResponse  `json:"toolResponse,omitempty"`
}

// remoteMessage is one frame received from the remote endpoint.
type remoteMessage struct {
	ServerContent *ServerContent `json:"serverContent"`
	ToolCall      *ToolCall      `json:"toolCall"`
}
