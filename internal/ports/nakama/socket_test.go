package nakama

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/heroiclabs/nakama-common/rtapi"
	"google.golang.org/protobuf/proto"
)

// engineStub plays the realtime side of the engine: it answers match joins,
// records submitted match data and pushes canned event frames after a join.
type engineStub struct {
	t             *testing.T
	upgrader      websocket.Upgrader
	pushAfterJoin []*rtapi.Envelope
	dropAfterJoin bool
	dropFirstJoin bool
	gotSend       chan *rtapi.MatchDataSend

	mu    sync.Mutex
	joins int
}

func newEngineStub(t *testing.T) *engineStub {
	return &engineStub{t: t, gotSend: make(chan *rtapi.MatchDataSend, 16)}
}

func (st *engineStub) handle(w http.ResponseWriter, r *http.Request) {
	conn, err := st.upgrader.Upgrade(w, r, nil)
	if err != nil {
		st.t.Errorf("upgrade: %v", err)
		return
	}
	defer conn.Close()
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var env rtapi.Envelope
		if err := proto.Unmarshal(data, &env); err != nil {
			st.t.Errorf("unmarshal frame: %v", err)
			continue
		}
		switch msg := env.Message.(type) {
		case *rtapi.Envelope_MatchJoin:
			st.mu.Lock()
			st.joins++
			nth := st.joins
			st.mu.Unlock()
			st.write(conn, &rtapi.Envelope{Cid: env.Cid, Message: &rtapi.Envelope_Match{Match: &rtapi.Match{
				MatchId:       msg.MatchJoin.GetMatchId(),
				Authoritative: true,
			}}})
			for _, push := range st.pushAfterJoin {
				st.write(conn, push)
			}
			if st.dropAfterJoin || (st.dropFirstJoin && nth == 1) {
				return
			}
		case *rtapi.Envelope_MatchDataSend:
			st.gotSend <- msg.MatchDataSend
		}
	}
}

func (st *engineStub) write(conn *websocket.Conn, env *rtapi.Envelope) {
	buf, err := proto.Marshal(env)
	if err != nil {
		st.t.Errorf("marshal frame: %v", err)
		return
	}
	if err := conn.WriteMessage(websocket.BinaryMessage, buf); err != nil {
		st.t.Errorf("write frame: %v", err)
	}
}

func (st *engineStub) serve() (*httptest.Server, string) {
	ts := httptest.NewServer(http.HandlerFunc(st.handle))
	return ts, "ws" + strings.TrimPrefix(ts.URL, "http")
}

func matchDataEvent(matchID string, opCode int64, data []byte) *rtapi.Envelope {
	return &rtapi.Envelope{Message: &rtapi.Envelope_MatchData{MatchData: &rtapi.MatchData{
		MatchId: matchID,
		OpCode:  opCode,
		Data:    data,
	}}}
}

func TestJoinMatchCorrelatesReply(t *testing.T) {
	stub := newEngineStub(t)
	ts, wsURL := stub.serve()
	defer ts.Close()

	socket := NewSocket(nil)
	if err := socket.Connect(context.Background(), wsURL); err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer socket.Close()

	match, err := socket.JoinMatch(context.Background(), "table-1")
	if err != nil {
		t.Fatalf("join match: %v", err)
	}
	if match.MatchId != "table-1" {
		t.Errorf("expected match id table-1, got %q", match.MatchId)
	}
	if !match.Authoritative {
		t.Error("expected an authoritative match")
	}
}

func TestSendMatchDataReachesEngine(t *testing.T) {
	stub := newEngineStub(t)
	ts, wsURL := stub.serve()
	defer ts.Close()

	socket := NewSocket(nil)
	if err := socket.Connect(context.Background(), wsURL); err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer socket.Close()
	if _, err := socket.JoinMatch(context.Background(), "table-1"); err != nil {
		t.Fatalf("join match: %v", err)
	}

	if err := socket.SendMatchData(context.Background(), "table-1", 7, []byte{0xaa, 0xbb}); err != nil {
		t.Fatalf("send match data: %v", err)
	}
	select {
	case got := <-stub.gotSend:
		if got.MatchId != "table-1" {
			t.Errorf("expected match id table-1, got %q", got.MatchId)
		}
		if got.OpCode != 7 {
			t.Errorf("expected opcode 7, got %d", got.OpCode)
		}
		if string(got.Data) != string([]byte{0xaa, 0xbb}) {
			t.Errorf("expected payload to round-trip, got %v", got.Data)
		}
		if !got.Reliable {
			t.Error("expected a reliable frame")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("engine never received the frame")
	}
}

func TestMatchDataCallbackPreservesArrivalOrder(t *testing.T) {
	stub := newEngineStub(t)
	stub.pushAfterJoin = []*rtapi.Envelope{
		matchDataEvent("table-1", 1, []byte{1}),
		matchDataEvent("table-1", 2, []byte{2}),
		matchDataEvent("table-1", 3, []byte{3}),
	}
	ts, wsURL := stub.serve()
	defer ts.Close()

	got := make(chan int64, 8)
	socket := NewSocket(nil)
	socket.SetOnMatchData(func(md *rtapi.MatchData) { got <- md.OpCode })
	if err := socket.Connect(context.Background(), wsURL); err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer socket.Close()
	if _, err := socket.JoinMatch(context.Background(), "table-1"); err != nil {
		t.Fatalf("join match: %v", err)
	}

	for _, want := range []int64{1, 2, 3} {
		select {
		case op := <-got:
			if op != want {
				t.Fatalf("expected opcode %d, got %d", want, op)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("event %d never arrived", want)
		}
	}
}

func TestConnectTwiceIsRejected(t *testing.T) {
	stub := newEngineStub(t)
	ts, wsURL := stub.serve()
	defer ts.Close()

	socket := NewSocket(nil)
	if err := socket.Connect(context.Background(), wsURL); err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer socket.Close()

	if err := socket.Connect(context.Background(), wsURL); !errors.Is(err, ErrAlreadyConnected) {
		t.Errorf("expected ErrAlreadyConnected, got %v", err)
	}
}

func TestCallsFailAfterClose(t *testing.T) {
	stub := newEngineStub(t)
	ts, wsURL := stub.serve()
	defer ts.Close()

	socket := NewSocket(nil)
	if err := socket.Connect(context.Background(), wsURL); err != nil {
		t.Fatalf("connect: %v", err)
	}
	socket.Close()

	if socket.Connected() {
		t.Error("expected socket to report disconnected")
	}
	if _, err := socket.JoinMatch(context.Background(), "table-1"); !errors.Is(err, ErrSocketClosed) {
		t.Errorf("expected ErrSocketClosed, got %v", err)
	}
	if err := socket.SendMatchData(context.Background(), "table-1", 1, nil); !errors.Is(err, ErrSocketClosed) {
		t.Errorf("expected ErrSocketClosed, got %v", err)
	}
}

func TestServerDropFiresDisconnectCallback(t *testing.T) {
	stub := newEngineStub(t)
	stub.dropAfterJoin = true
	ts, wsURL := stub.serve()
	defer ts.Close()

	dropped := make(chan error, 1)
	socket := NewSocket(nil)
	socket.SetOnDisconnect(func(err error) { dropped <- err })
	if err := socket.Connect(context.Background(), wsURL); err != nil {
		t.Fatalf("connect: %v", err)
	}
	if _, err := socket.JoinMatch(context.Background(), "table-1"); err != nil {
		t.Fatalf("join match: %v", err)
	}

	select {
	case err := <-dropped:
		if err == nil {
			t.Error("expected a disconnect cause, got nil")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("disconnect callback never fired")
	}
	if socket.Connected() {
		t.Error("expected socket to report disconnected")
	}
}

func TestExplicitCloseDoesNotFireDisconnect(t *testing.T) {
	stub := newEngineStub(t)
	ts, wsURL := stub.serve()
	defer ts.Close()

	dropped := make(chan error, 1)
	socket := NewSocket(nil)
	socket.SetOnDisconnect(func(err error) { dropped <- err })
	if err := socket.Connect(context.Background(), wsURL); err != nil {
		t.Fatalf("connect: %v", err)
	}
	socket.Close()

	select {
	case err := <-dropped:
		t.Errorf("expected no disconnect callback, got %v", err)
	case <-time.After(100 * time.Millisecond):
	}
}
