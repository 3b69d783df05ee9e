package room

import (
	"errors"
	"testing"
	"time"

	"memorymatch/game"
	"memorymatch/protocol"
)

type fakeConn struct {
	sendCh chan []byte
	closed chan struct{}
}

func newFakeConn() *fakeConn {
	return &fakeConn{sendCh: make(chan []byte, 1024), closed: make(chan struct{}, 1)}
}

func (f *fakeConn) Send(b []byte) error {
	cp := make([]byte, len(b))
	copy(cp, b)
	f.sendCh <- cp
	return nil
}

func (f *fakeConn) Close() error {
	select {
	case f.closed <- struct{}{}:
	default:
	}
	return nil
}

func testOptions() Options {
	return Options{TickInterval: time.Hour, MatchDelay: 0, Seed: 42}
}

func startRoom(t *testing.T, opts Options) *Room {
	t.Helper()
	r := New(opts)
	r.Code = "TEST01"
	go r.Run()
	t.Cleanup(r.Stop)
	return r
}

func join(t *testing.T, r *Room, name string) (*fakeConn, string) {
	t.Helper()
	fc := newFakeConn()
	reply := make(chan JoinResult, 1)
	r.Inbox <- Join{Conn: fc, Name: name, Reply: reply}
	select {
	case res := <-reply:
		if res.PlayerID == "" {
			t.Fatalf("expected player id, got empty")
		}
		return fc, res.PlayerID
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for join")
	}
	return nil, ""
}

// waitFor reads frames until one of type msgType satisfies match.
func waitFor(t *testing.T, fc *fakeConn, msgType string, match func(protocol.Envelope) bool) protocol.Envelope {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case b := <-fc.sendCh:
			env, err := protocol.DecodeEnvelope(b)
			if err != nil {
				t.Fatalf("decode envelope: %v", err)
			}
			if env.T != msgType {
				continue
			}
			if match == nil || match(env) {
				return env
			}
		case <-timeout:
			t.Fatalf("timed out waiting for %q frame", msgType)
		}
	}
}

func cardIs(t *testing.T, pos int, state game.CardState) func(protocol.Envelope) bool {
	return func(env protocol.Envelope) bool {
		c, err := protocol.DecodePayload[protocol.Card](env)
		if err != nil {
			t.Fatalf("decode card: %v", err)
		}
		return c.Position == pos && c.State == state.String()
	}
}

func snapshot(t *testing.T, r *Room) protocol.State {
	t.Helper()
	reply := make(chan protocol.State, 1)
	r.Inbox <- Snapshot{Reply: reply}
	select {
	case st := <-reply:
		return st
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for snapshot")
	}
	return protocol.State{}
}

// layout maps each symbol name to its two positions in the current game.
func layout(t *testing.T, r *Room) map[string][]int {
	t.Helper()
	out := make(map[string][]int)
	for _, c := range snapshot(t, r).Cards {
		if c.Symbol == "" {
			t.Fatalf("card %d has no symbol; game not started?", c.Position)
		}
		out[c.Symbol] = append(out[c.Symbol], c.Position)
	}
	return out
}

func mismatchedPair(t *testing.T, r *Room) (int, int) {
	t.Helper()
	cards := snapshot(t, r).Cards
	for i := 1; i < len(cards); i++ {
		if cards[i].Symbol != cards[0].Symbol {
			return 0, i
		}
	}
	t.Fatalf("no mismatched pair")
	return 0, 0
}

func TestRoomJoinSendsWelcomeStateAndPrompt(t *testing.T) {
	r := startRoom(t, testOptions())
	fc, id := join(t, r, "test")

	env := waitFor(t, fc, protocol.MsgWelcome, nil)
	w, err := protocol.DecodePayload[protocol.Welcome](env)
	if err != nil {
		t.Fatalf("decode welcome: %v", err)
	}
	if w.PlayerID != id || w.Code != "TEST01" {
		t.Fatalf("welcome = %+v, want player %q in TEST01", w, id)
	}

	env = waitFor(t, fc, protocol.MsgState, nil)
	st, err := protocol.DecodePayload[protocol.State](env)
	if err != nil {
		t.Fatalf("decode state: %v", err)
	}
	if st.Phase != "idle" || st.Stars != 3 || st.TimerRunning || len(st.Cards) != game.DeckSize {
		t.Fatalf("unexpected idle state: %+v", st)
	}
	for _, c := range st.Cards {
		if c.Symbol != "" || c.State != "closed" {
			t.Fatalf("idle card leaks %+v", c)
		}
	}

	env = waitFor(t, fc, protocol.MsgPrompt, nil)
	p, err := protocol.DecodePayload[protocol.Prompt](env)
	if err != nil {
		t.Fatalf("decode prompt: %v", err)
	}
	if p.TwoStarMoves != 30 || p.OneStarMoves != 40 {
		t.Fatalf("prompt = %+v", p)
	}
}

func TestRoomOpenIgnoredBeforeStart(t *testing.T) {
	r := startRoom(t, testOptions())
	_, id := join(t, r, "early")

	r.Inbox <- Open{PlayerID: id, Position: 0}
	st := snapshot(t, r)
	if st.Moves != 0 || st.Cards[0].State != "closed" {
		t.Fatalf("open before start changed state: %+v", st)
	}
}

func TestRoomTwoClientsSeeSameBoard(t *testing.T) {
	r := startRoom(t, testOptions())
	fc1, id1 := join(t, r, "a")
	fc2, _ := join(t, r, "b")

	r.Inbox <- Start{PlayerID: id1}
	r.Inbox <- Open{PlayerID: id1, Position: 5}

	waitFor(t, fc1, protocol.MsgCard, cardIs(t, 5, game.CardOpened))
	waitFor(t, fc2, protocol.MsgCard, cardIs(t, 5, game.CardOpened))
}

func TestRoomMismatchClosesBoth(t *testing.T) {
	r := startRoom(t, testOptions())
	fc, id := join(t, r, "m")
	r.Inbox <- Start{PlayerID: id}

	a, b := mismatchedPair(t, r)
	r.Inbox <- Open{PlayerID: id, Position: a}
	r.Inbox <- Open{PlayerID: id, Position: b}

	waitFor(t, fc, protocol.MsgCard, cardIs(t, a, game.CardOpened))
	waitFor(t, fc, protocol.MsgCard, cardIs(t, b, game.CardOpened))
	waitFor(t, fc, protocol.MsgCard, cardIs(t, a, game.CardClosed))
	waitFor(t, fc, protocol.MsgCard, cardIs(t, b, game.CardClosed))

	st := snapshot(t, r)
	if st.Moves != 2 || st.Cards[a].State != "closed" || st.Cards[b].State != "closed" {
		t.Fatalf("after mismatch: %+v", st)
	}
}

func TestRoomMatchStaysMatched(t *testing.T) {
	r := startRoom(t, testOptions())
	fc, id := join(t, r, "m")
	r.Inbox <- Start{PlayerID: id}

	at := layout(t, r)["tree"]
	r.Inbox <- Open{PlayerID: id, Position: at[0]}
	r.Inbox <- Open{PlayerID: id, Position: at[1]}
	waitFor(t, fc, protocol.MsgCard, cardIs(t, at[1], game.CardMatched))

	r.Inbox <- Open{PlayerID: id, Position: at[0]}
	st := snapshot(t, r)
	if st.Moves != 2 {
		t.Fatalf("reopening matched card counted a move: %d", st.Moves)
	}
	for _, pos := range at {
		if st.Cards[pos].State != "matched" {
			t.Fatalf("card %d state %q, want matched", pos, st.Cards[pos].State)
		}
	}
}

func TestRoomDeferredCheckShowsBothCards(t *testing.T) {
	opts := testOptions()
	opts.MatchDelay = 30 * time.Millisecond
	r := startRoom(t, opts)
	fc, id := join(t, r, "slow")
	r.Inbox <- Start{PlayerID: id}

	a, b := mismatchedPair(t, r)
	r.Inbox <- Open{PlayerID: id, Position: a}
	r.Inbox <- Open{PlayerID: id, Position: b}

	st := snapshot(t, r)
	if st.Cards[a].State != "opened" || st.Cards[b].State != "opened" {
		t.Fatalf("pair not shown before resolution: %q %q", st.Cards[a].State, st.Cards[b].State)
	}
	waitFor(t, fc, protocol.MsgCard, cardIs(t, b, game.CardClosed))
}

func TestRoomRestartDropsStaleCheck(t *testing.T) {
	opts := testOptions()
	opts.MatchDelay = 300 * time.Millisecond
	r := startRoom(t, opts)
	_, id := join(t, r, "restart")
	r.Inbox <- Start{PlayerID: id}

	a, b := mismatchedPair(t, r)
	r.Inbox <- Open{PlayerID: id, Position: a}
	r.Inbox <- Open{PlayerID: id, Position: b}
	r.Inbox <- Restart{PlayerID: id}

	time.Sleep(100 * time.Millisecond)
	a, b = mismatchedPair(t, r)
	r.Inbox <- Open{PlayerID: id, Position: a}
	r.Inbox <- Open{PlayerID: id, Position: b}

	// The first game's check would have fired by now.
	time.Sleep(220 * time.Millisecond)
	st := snapshot(t, r)
	if st.Cards[a].State != "opened" || st.Cards[b].State != "opened" {
		t.Fatalf("stale check resolved the new game's pair: %q %q", st.Cards[a].State, st.Cards[b].State)
	}
	if st.Moves != 2 || !st.TimerRunning {
		t.Fatalf("after restart: %+v", st)
	}
}

func TestRoomTickerCountsTime(t *testing.T) {
	opts := testOptions()
	opts.TickInterval = 10 * time.Millisecond
	r := startRoom(t, opts)
	fc, id := join(t, r, "clock")
	r.Inbox <- Start{PlayerID: id}

	want := 1
	for want <= 3 {
		env := waitFor(t, fc, protocol.MsgTime, nil)
		tm, err := protocol.DecodePayload[protocol.Time](env)
		if err != nil {
			t.Fatalf("decode time: %v", err)
		}
		if tm.Seconds == 0 {
			continue
		}
		if tm.Seconds != want {
			t.Fatalf("time = %d, want %d", tm.Seconds, want)
		}
		want++
	}
}

func TestRoomWinStopsTimerAndReportsOnce(t *testing.T) {
	opts := testOptions()
	opts.TickInterval = 5 * time.Millisecond
	opts.MatchDelay = time.Millisecond
	r := New(opts)
	r.Code = "WIN001"
	wins := make(chan game.Summary, 4)
	r.OnWin = func(code string, sum game.Summary) {
		if code != "WIN001" {
			t.Errorf("OnWin code = %q", code)
		}
		wins <- sum
	}
	go r.Run()
	defer r.Stop()

	fc, id := join(t, r, "winner")
	r.Inbox <- Start{PlayerID: id}
	for _, at := range layout(t, r) {
		r.Inbox <- Open{PlayerID: id, Position: at[0]}
		r.Inbox <- Open{PlayerID: id, Position: at[1]}
		waitFor(t, fc, protocol.MsgCard, cardIs(t, at[1], game.CardMatched))
	}

	env := waitFor(t, fc, protocol.MsgWon, nil)
	won, err := protocol.DecodePayload[protocol.Won](env)
	if err != nil {
		t.Fatalf("decode won: %v", err)
	}
	if won.Moves != game.DeckSize || won.Stars != 3 {
		t.Fatalf("won = %+v", won)
	}

	select {
	case sum := <-wins:
		if sum.Moves != won.Moves || sum.Time != won.Time {
			t.Fatalf("OnWin summary %+v differs from frame %+v", sum, won)
		}
	case <-time.After(time.Second):
		t.Fatalf("OnWin not called")
	}

	deadline := time.After(60 * time.Millisecond)
	for waiting := true; waiting; {
		select {
		case b := <-fc.sendCh:
			env, err := protocol.DecodeEnvelope(b)
			if err != nil {
				t.Fatalf("decode envelope: %v", err)
			}
			if env.T == protocol.MsgTime || env.T == protocol.MsgWon {
				t.Fatalf("got %q frame after win", env.T)
			}
		case <-deadline:
			waiting = false
		}
	}
	st := snapshot(t, r)
	if st.Phase != "won" || st.TimerRunning || st.Time != won.Time {
		t.Fatalf("after win: %+v", st)
	}
	select {
	case <-wins:
		t.Fatalf("OnWin called twice")
	default:
	}
}

func TestRoomRejectsBadInput(t *testing.T) {
	r := startRoom(t, testOptions())
	fc, id := join(t, r, "bad")
	r.Inbox <- Start{PlayerID: id}

	r.Inbox <- Open{PlayerID: id, Position: 99}
	env := waitFor(t, fc, protocol.MsgError, nil)
	e, err := protocol.DecodePayload[protocol.Error](env)
	if err != nil || e.Message == "" {
		t.Fatalf("error frame = %+v, %v", e, err)
	}

	r.Inbox <- Open{PlayerID: "nobody", Position: 1}
	r.Inbox <- Restart{PlayerID: "nobody"}
	st := snapshot(t, r)
	if st.Moves != 0 || st.Cards[1].State != "closed" {
		t.Fatalf("unknown player changed state: %+v", st)
	}
}

func TestRoomLeaveCallsOnEmpty(t *testing.T) {
	r := New(testOptions())
	r.Code = "EMPTY1"
	emptied := make(chan string, 1)
	r.OnEmpty = func(code string) { emptied <- code }
	go r.Run()
	defer r.Stop()

	fc, id := join(t, r, "leaver")
	if r.NumPlayers() != 1 {
		t.Fatalf("NumPlayers = %d, want 1", r.NumPlayers())
	}
	r.Inbox <- Leave{PlayerID: id}

	select {
	case code := <-emptied:
		if code != "EMPTY1" {
			t.Fatalf("OnEmpty code = %q", code)
		}
	case <-time.After(time.Second):
		t.Fatalf("OnEmpty not called")
	}
	select {
	case <-fc.closed:
	default:
		t.Fatalf("conn not closed on leave")
	}
	if r.NumPlayers() != 0 {
		t.Fatalf("NumPlayers = %d, want 0", r.NumPlayers())
	}
}

type failConn struct{}

var errSend = errors.New("send failed")

func (failConn) Send([]byte) error { return errSend }

func (failConn) Close() error { return nil }

func TestRoomDropsFailingConn(t *testing.T) {
	r := startRoom(t, testOptions())
	reply := make(chan JoinResult, 1)
	r.Inbox <- Join{Conn: failConn{}, Name: "gone", Reply: reply}
	<-reply
	_, id := join(t, r, "stays")

	r.Inbox <- Start{PlayerID: id}
	snapshot(t, r)
	if r.NumPlayers() != 1 {
		t.Fatalf("NumPlayers = %d, want 1 after failed sends", r.NumPlayers())
	}
}
