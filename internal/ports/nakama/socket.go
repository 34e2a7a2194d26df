package nakama

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/heroiclabs/nakama-common/rtapi"
	"google.golang.org/protobuf/proto"

	"felt/internal/ports"
)

var (
	ErrSocketClosed     = errors.New("socket closed")
	ErrAlreadyConnected = errors.New("socket already connected")
)

// Socket is the realtime connection to the engine. Frames are binary
// protobuf envelopes; requests carry a correlation id, events arrive bare.
// Match data callbacks run on the single read goroutine, so events reach the
// dispatcher in arrival order.
type Socket struct {
	log ports.Logger

	mu           sync.Mutex
	conn         *websocket.Conn
	send         chan []byte
	closed       chan struct{}
	calls        map[string]chan *rtapi.Envelope
	nextCid      uint64
	onMatchData  func(*rtapi.MatchData)
	onDisconnect func(error)
}

// NewSocket builds an unconnected Socket.
func NewSocket(log ports.Logger) *Socket {
	if log == nil {
		log = ports.NopLogger{}
	}
	return &Socket{
		log:   log,
		calls: make(map[string]chan *rtapi.Envelope),
	}
}

// SetOnMatchData registers the match data callback. Set it before Connect.
func (s *Socket) SetOnMatchData(fn func(*rtapi.MatchData)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onMatchData = fn
}

// SetOnDisconnect registers a callback fired when the connection drops for
// any reason other than an explicit Close.
func (s *Socket) SetOnDisconnect(fn func(error)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onDisconnect = fn
}

// Connect dials the realtime endpoint and starts the read and write pumps.
func (s *Socket) Connect(ctx context.Context, socketURL string) error {
	s.mu.Lock()
	if s.conn != nil {
		s.mu.Unlock()
		return ErrAlreadyConnected
	}
	s.mu.Unlock()

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, socketURL, nil)
	if err != nil {
		return fmt.Errorf("dial socket: %w", err)
	}

	s.mu.Lock()
	if s.conn != nil {
		s.mu.Unlock()
		conn.Close()
		return ErrAlreadyConnected
	}
	s.conn = conn
	s.send = make(chan []byte, sendBuffer)
	s.closed = make(chan struct{})
	send, closed := s.send, s.closed
	s.mu.Unlock()

	go s.writePump(conn, send, closed)
	go s.readPump(conn)
	return nil
}

// Connected reports whether the socket currently holds a live connection.
func (s *Socket) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn != nil
}

// Close tears the connection down without firing the disconnect callback.
func (s *Socket) Close() {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	if conn == nil {
		return
	}
	s.teardown(conn, nil)
}

// JoinMatch joins the given match id and returns the engine's match record.
func (s *Socket) JoinMatch(ctx context.Context, matchID string) (*rtapi.Match, error) {
	env := &rtapi.Envelope{Message: &rtapi.Envelope_MatchJoin{MatchJoin: &rtapi.MatchJoin{
		Id: &rtapi.MatchJoin_MatchId{MatchId: matchID},
	}}}
	resp, err := s.call(ctx, env)
	if err != nil {
		return nil, fmt.Errorf("join match: %w", err)
	}
	m := resp.GetMatch()
	if m == nil {
		return nil, fmt.Errorf("join match: unexpected reply %T", resp.Message)
	}
	return m, nil
}

// SendMatchData queues one reliable match data frame. Delivery confirmation
// comes back through the event stream, not the send path.
func (s *Socket) SendMatchData(ctx context.Context, matchID string, opCode int64, data []byte) error {
	env := &rtapi.Envelope{Message: &rtapi.Envelope_MatchDataSend{MatchDataSend: &rtapi.MatchDataSend{
		MatchId:  matchID,
		OpCode:   opCode,
		Data:     data,
		Reliable: true,
	}}}
	buf, err := proto.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal match data: %w", err)
	}

	s.mu.Lock()
	connected := s.conn != nil
	send, closed := s.send, s.closed
	s.mu.Unlock()
	if !connected {
		return ErrSocketClosed
	}
	select {
	case send <- buf:
		return nil
	case <-closed:
		return ErrSocketClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// call sends a cid-correlated request and waits for its reply envelope.
func (s *Socket) call(ctx context.Context, env *rtapi.Envelope) (*rtapi.Envelope, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, callTimeout)
		defer cancel()
	}

	ch := make(chan *rtapi.Envelope, 1)
	s.mu.Lock()
	if s.conn == nil {
		s.mu.Unlock()
		return nil, ErrSocketClosed
	}
	s.nextCid++
	cid := strconv.FormatUint(s.nextCid, 10)
	env.Cid = cid
	s.calls[cid] = ch
	send, closed := s.send, s.closed
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.calls, cid)
		s.mu.Unlock()
	}()

	buf, err := proto.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("marshal envelope: %w", err)
	}
	select {
	case send <- buf:
	case <-closed:
		return nil, ErrSocketClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	var resp *rtapi.Envelope
	select {
	case resp = <-ch:
	case <-closed:
		// Replies land before teardown on the read goroutine, so one that
		// raced the close is already buffered.
		select {
		case resp = <-ch:
		default:
			return nil, ErrSocketClosed
		}
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if e := resp.GetError(); e != nil {
		return nil, fmt.Errorf("engine error %d: %s", e.Code, e.Message)
	}
	return resp, nil
}

func (s *Socket) writePump(conn *websocket.Conn, send chan []byte, closed chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case buf := <-send:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.BinaryMessage, buf); err != nil {
				s.teardown(conn, err)
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.teardown(conn, err)
				return
			}
		case <-closed:
			return
		}
	}
}

func (s *Socket) readPump(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			s.teardown(conn, err)
			return
		}
		var env rtapi.Envelope
		if err := proto.Unmarshal(data, &env); err != nil {
			s.log.Warn("dropping undecodable frame: %v", err)
			continue
		}
		if env.Cid != "" {
			s.deliver(env.Cid, &env)
			continue
		}
		switch msg := env.Message.(type) {
		case *rtapi.Envelope_MatchData:
			s.mu.Lock()
			cb := s.onMatchData
			s.mu.Unlock()
			if cb != nil {
				cb(msg.MatchData)
			}
		case *rtapi.Envelope_Error:
			s.log.Warn("engine error %d: %s", msg.Error.Code, msg.Error.Message)
		default:
			// Presence churn and other traffic the client does not track.
		}
	}
}

func (s *Socket) deliver(cid string, env *rtapi.Envelope) {
	s.mu.Lock()
	ch := s.calls[cid]
	delete(s.calls, cid)
	s.mu.Unlock()
	if ch == nil {
		s.log.Debug("reply for unknown cid %s", cid)
		return
	}
	ch <- env
}

// teardown closes one connection generation. Pending calls and queued sends
// unblock through the closed channel.
func (s *Socket) teardown(conn *websocket.Conn, err error) {
	s.mu.Lock()
	if s.conn != conn {
		s.mu.Unlock()
		return
	}
	s.conn = nil
	close(s.closed)
	cb := s.onDisconnect
	s.mu.Unlock()
	conn.Close()
	if err == nil {
		return
	}
	s.log.Warn("socket disconnected: %v", err)
	if cb != nil {
		cb(err)
	}
}
