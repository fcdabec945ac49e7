package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultEndpoint = "https://generativelanguage.googleapis.com/v1beta/models"

// classifierPrompt is the instruction block sent with every request. The
// wallet-defaulting and amount-shorthand rules live here, on the remote
// side of the boundary.
const classifierPrompt = `Bạn là trợ lý tài chính thông minh của MoneyTalk.
Nhiệm vụ: Phân tích văn bản %q thành dữ liệu tài chính.
Ngày hôm nay: %s.

QUY TẮC QUAN TRỌNG:
1. **Xác định Ví (Wallet):**
   - Nếu có từ "ck", "chuyển khoản", "tk", "tài khoản", "ngân hàng" -> wallet: "account".
   - Nếu có từ "tiền mặt" -> wallet: "cash".
   - KHÔNG có các từ trên -> MẶC ĐỊNH wallet: "cash".

2. **Hành động (Action):**
   - **Giao dịch thường (transaction):** Mua, bán, chi, thu, nhận lương, ăn uống...
   - **Luân chuyển (transfer):** Nạp tiền, rút tiền, chuyển từ ví này sang ví kia.
     - "Nạp tiền vào tk" -> from: "cash", to: "account".
     - "Rút tiền từ tk" -> from: "account", to: "cash".
   - **Trò chuyện (chat):** Câu hỏi chung, chào hỏi.

3. **Định dạng dữ liệu:**
   - amount: Số nguyên dương (ví dụ: "10k" -> 10000, "1tr" -> 1000000).
   - date: YYYY-MM-DD.

Yêu cầu trả về JSON theo schema.`

// Gemini calls the Gemini generateContent REST endpoint with a constrained
// JSON response schema and decodes the reply into a Result.
type Gemini struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// Option configures a Gemini classifier.
type Option func(*Gemini)

// WithEndpoint overrides the API base URL, mainly for tests.
func WithEndpoint(url string) Option {
	return func(g *Gemini) { g.endpoint = url }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(g *Gemini) { g.client = c }
}

// NewGemini creates a classifier backed by the given model.
func NewGemini(apiKey, model string, opts ...Option) *Gemini {
	g := &Gemini{
		apiKey:   apiKey,
		model:    model,
		endpoint: defaultEndpoint,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// generateRequest mirrors the generateContent request body.
type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMimeType string          `json:"responseMimeType"`
	ResponseSchema   json.RawMessage `json:"responseSchema"`
}

// responseSchema constrains the model to the three-way tagged Result shape.
var responseSchema = json.RawMessage(`{
  "type": "OBJECT",
  "properties": {
    "action": {"type": "STRING", "enum": ["transaction", "transfer", "chat"]},
    "transactionData": {
      "type": "OBJECT",
      "nullable": true,
      "properties": {
        "amount": {"type": "NUMBER"},
        "type": {"type": "STRING", "enum": ["income", "expense"]},
        "wallet": {"type": "STRING", "enum": ["cash", "account"]},
        "category": {"type": "STRING"},
        "description": {"type": "STRING"},
        "date": {"type": "STRING"}
      }
    },
    "transferData": {
      "type": "OBJECT",
      "nullable": true,
      "properties": {
        "amount": {"type": "NUMBER"},
        "from": {"type": "STRING", "enum": ["cash", "account"]},
        "to": {"type": "STRING", "enum": ["cash", "account"]},
        "description": {"type": "STRING"},
        "date": {"type": "STRING"}
      }
    },
    "chatResponse": {"type": "STRING"}
  },
  "required": ["action", "chatResponse"]
}`)

// generateResponse is the subset of the generateContent reply we read.
type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Process sends the user's text to the model and decodes the structured
// verdict. All failures are returned as errors; callers are expected to
// substitute Fallback().
func (g *Gemini) Process(ctx context.Context, text string, today string) (*Result, error) {
	result, err := g.generate(ctx, text, today)
	if err != nil {
		verdictsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	verdictsTotal.WithLabelValues(string(result.Action)).Inc()
	return result, nil
}

func (g *Gemini) generate(ctx context.Context, text string, today string) (*Result, error) {
	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: fmt.Sprintf(classifierPrompt, text, today)}}}},
		GenerationConfig: generationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   responseSchema,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	url := fmt.Sprintf("%s/%s:generateContent", g.endpoint, g.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("classifier request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("classifier returned %d: %s", resp.StatusCode, payload)
	}

	var reply generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return nil, fmt.Errorf("failed to decode reply: %w", err)
	}
	if len(reply.Candidates) == 0 || len(reply.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("empty response")
	}

	var result Result
	if err := json.Unmarshal([]byte(reply.Candidates[0].Content.Parts[0].Text), &result); err != nil {
		return nil, fmt.Errorf("failed to parse verdict: %w", err)
	}
	return &result, nil
}
