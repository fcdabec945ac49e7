package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/hoangnt/moneytalk/internal/middleware"
	"github.com/hoangnt/moneytalk/internal/voice"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1 << 16,
	WriteBufferSize: 1 << 16,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

const voiceSystemInstruction = `Bạn là trợ lý tài chính MoneyTalk.
Bạn giao tiếp bằng giọng nói tự nhiên, thân thiện.
Giúp người dùng ghi chép chi tiêu, thu nhập và luân chuyển tiền.
MẶC ĐỊNH nếu không nói ví nào thì ghi vào 'cash' (tiền mặt).
Nếu người dùng nói 'ck', 'tài khoản', 'bank' thì dùng ví 'account'.
Luôn xác nhận lại sau khi thực hiện ghi chép.`

// voiceTools declares the two functions the assistant may call during a
// live session.
var voiceTools = json.RawMessage(`[{
	"functionDeclarations": [
		{
			"name": "logTransaction",
			"parameters": {
				"type": "OBJECT",
				"properties": {
					"amount": {"type": "NUMBER", "description": "Số tiền"},
					"type": {"type": "STRING", "enum": ["income", "expense"], "description": "Loại giao dịch"},
					"wallet": {"type": "STRING", "enum": ["cash", "account"], "description": "Ví sử dụng"},
					"category": {"type": "STRING", "description": "Danh mục (Ăn uống, Lương...)"},
					"description": {"type": "STRING", "description": "Mô tả chi tiết"}
				},
				"required": ["amount", "type", "wallet"]
			}
		},
		{
			"name": "transferMoney",
			"parameters": {
				"type": "OBJECT",
				"properties": {
					"amount": {"type": "NUMBER", "description": "Số tiền chuyển"},
					"from": {"type": "STRING", "enum": ["cash", "account"]},
					"to": {"type": "STRING", "enum": ["cash", "account"]},
					"description": {"type": "STRING"}
				},
				"required": ["amount", "from", "to"]
			}
		}
	]
}]`)

type voiceSetup struct {
	Setup voiceSetupBody `json:"setup"`
}

type voiceSetupBody struct {
	Model             string          `json:"model"`
	GenerationConfig  json.RawMessage `json:"generationConfig"`
	SystemInstruction voiceContent    `json:"systemInstruction"`
	Tools             json.RawMessage `json:"tools"`
}

type voiceContent struct {
	Parts []voicePart `json:"parts"`
}

type voicePart struct {
	Text string `json:"text"`
}

var voiceGenerationConfig = json.RawMessage(`{
	"responseModalities": ["AUDIO"],
	"speechConfig": {"voiceConfig": {"prebuiltVoiceConfig": {"voiceName": "Zephyr"}}}
}`)

// wallClock reports playback time in seconds since the session started.
type wallClock struct {
	start time.Time
}

func (c wallClock) Now() float64 {
	return time.Since(c.start).Seconds()
}

func (s *Server) handleVoice(w http.ResponseWriter, r *http.Request) {
	username := middleware.GetUsername(r.Context())

	b, err := s.shelf.Open(r.Context(), username)
	if err != nil {
		slog.Error("failed to open book", "username", username, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load transactions")
		return
	}

	client, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("failed to upgrade voice connection", "username", username, "error", err)
		return
	}

	remote, err := s.dialVoice(r)
	if err != nil {
		slog.Error("failed to dial voice endpoint", "username", username, "error", err)
		client.WriteJSON(voice.ServerMessage{Type: voice.ServerError, Message: voice.MsgConnectError})
		client.Close()
		return
	}

	log := slog.Default().With("username", username)
	session := voice.NewSession(client, remote, b, wallClock{start: time.Now()}, log)
	session.Run(r.Context())
}

// dialVoice connects to the live endpoint and replays the session setup
// before any audio flows.
func (s *Server) dialVoice(r *http.Request) (*websocket.Conn, error) {
	header := http.Header{}
	header.Set("x-goog-api-key", s.voiceAPIKey)

	remote, _, err := websocket.DefaultDialer.DialContext(r.Context(), s.voiceCfg.Endpoint, header)
	if err != nil {
		return nil, err
	}

	setup := voiceSetup{Setup: voiceSetupBody{
		Model:             "models/" + s.voiceCfg.Model,
		GenerationConfig:  voiceGenerationConfig,
		SystemInstruction: voiceContent{Parts: []voicePart{{Text: voiceSystemInstruction}}},
		Tools:             voiceTools,
	}}
	if err := remote.WriteJSON(setup); err != nil {
		remote.Close()
		return nil, err
	}

	// The endpoint acknowledges the setup before streaming anything else.
	var ack json.RawMessage
	if err := remote.ReadJSON(&ack); err != nil {
		remote.Close()
		return nil, err
	}
	return remote, nil
}
