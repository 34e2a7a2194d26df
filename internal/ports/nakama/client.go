package nakama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/heroiclabs/nakama-common/api"
	"google.golang.org/protobuf/encoding/protojson"

	"felt/internal/ports"
)

// Client talks to the engine's HTTP surface: device authentication and the
// JSON snapshot RPCs. Realtime traffic goes through Socket.
type Client struct {
	log       ports.Logger
	baseURL   string
	serverKey string
	http      *http.Client
}

// NewClient builds a Client for the given base URL, e.g. "http://127.0.0.1:7350".
func NewClient(log ports.Logger, baseURL, serverKey string) *Client {
	if log == nil {
		log = ports.NopLogger{}
	}
	return &Client{
		log:       log,
		baseURL:   strings.TrimRight(baseURL, "/"),
		serverKey: serverKey,
		http:      &http.Client{Timeout: 30 * time.Second},
	}
}

// AuthenticateDevice logs in with a device id, creating the account on first
// contact. Username is optional and only honored at creation time.
func (c *Client) AuthenticateDevice(ctx context.Context, deviceID, username string) (*Session, error) {
	body, err := json.Marshal(map[string]string{"id": deviceID})
	if err != nil {
		return nil, fmt.Errorf("authenticate device: %w", err)
	}
	endpoint := c.baseURL + "/v2/account/authenticate/device?create=true"
	if username != "" {
		endpoint += "&username=" + url.QueryEscape(username)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("authenticate device: %w", err)
	}
	req.SetBasicAuth(c.serverKey, "")
	req.Header.Set("Content-Type", "application/json")

	data, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("authenticate device: %w", err)
	}
	var apiSession api.Session
	if err := protojson.Unmarshal(data, &apiSession); err != nil {
		return nil, fmt.Errorf("authenticate device: decode session: %w", err)
	}
	return newSession(&apiSession)
}

// Rpc invokes a server RPC with a raw JSON payload and returns the raw JSON
// response.
func (c *Client) Rpc(ctx context.Context, session *Session, id, payload string) (string, error) {
	endpoint := fmt.Sprintf("%s/v2/rpc/%s?unwrap=true", c.baseURL, url.PathEscape(id))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("rpc %s: %w", id, err)
	}
	req.Header.Set("Authorization", "Bearer "+session.Token)
	req.Header.Set("Content-Type", "application/json")

	data, err := c.do(req)
	if err != nil {
		return "", fmt.Errorf("rpc %s: %w", id, err)
	}
	return string(data), nil
}

// SocketURL derives the websocket endpoint for a session.
func (c *Client) SocketURL(session *Session) string {
	ws := strings.Replace(c.baseURL, "http", "ws", 1)
	return fmt.Sprintf("%s/ws?lang=en&status=true&token=%s", ws, url.QueryEscape(session.Token))
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	return data, nil
}
