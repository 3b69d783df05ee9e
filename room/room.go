package room

import (
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"memorymatch/game"
	"memorymatch/protocol"
)

type Options struct {
	TickInterval time.Duration // elapsed-time step, one game second
	MatchDelay   time.Duration // how long a pair stays face up; zero resolves inline
	Seed         uint64        // zero draws a seed from crypto/rand
}

func DefaultOptions() Options {
	return Options{
		TickInterval: game.TickIntervalMS * time.Millisecond,
		MatchDelay:   game.MatchDelayMS * time.Millisecond,
	}
}

type Room struct {
	Inbox   chan any
	opts    Options
	session *game.Session
	clients map[string]Conn
	players atomic.Int32
	nextID  int
	quit    chan struct{}

	ticker     *time.Ticker
	matchTimer *time.Timer
	generation int

	Code    string                              // room code (e.g. "ABC123")
	OnEmpty func(code string)                   // called when last player leaves
	OnWin   func(code string, sum game.Summary) // called once per won game
}

func New(opts Options) *Room {
	if opts.TickInterval <= 0 {
		opts.TickInterval = DefaultOptions().TickInterval
	}
	if opts.MatchDelay < 0 {
		opts.MatchDelay = 0
	}
	seed := opts.Seed
	if seed == 0 {
		s, err := game.NewSeed()
		if err != nil {
			s = uint64(time.Now().UnixNano())
		}
		seed = s
	}
	r := &Room{
		Inbox:   make(chan any, 256),
		opts:    opts,
		clients: make(map[string]Conn),
		nextID:  1,
		quit:    make(chan struct{}),
	}
	r.session = game.NewSession(broadcaster{r}, game.NewRand(seed))
	return r
}

func (r *Room) Stop() {
	close(r.quit)
}

// NumPlayers returns the current number of connected clients.
func (r *Room) NumPlayers() int {
	return int(r.players.Load())
}

func (r *Room) Run() {
	defer r.cancelTimers()

	for {
		select {
		case <-r.quit:
			return
		case cmd := <-r.Inbox:
			r.handleCommand(cmd)
		case <-r.tickC():
			r.session.Tick()
		}
	}
}

// tickC is nil, and so never ready, while no game is running.
func (r *Room) tickC() <-chan time.Time {
	if r.ticker == nil {
		return nil
	}
	return r.ticker.C
}

func (r *Room) handleCommand(cmd any) {
	switch c := cmd.(type) {
	case Join:
		r.handleJoin(c)
	case Leave:
		r.handleLeave(c.PlayerID)
	case Start:
		if r.known(c.PlayerID) {
			r.startGame()
		}
	case Restart:
		if r.known(c.PlayerID) {
			r.startGame()
		}
	case Open:
		if !r.known(c.PlayerID) {
			return
		}
		if c.Position < 0 || c.Position >= game.DeckSize {
			r.sendTo(r.clients[c.PlayerID], protocol.MsgError,
				protocol.Error{Message: fmt.Sprintf("position %d out of range", c.Position)})
			return
		}
		if r.session.Open(c.Position) && r.session.Pending() {
			r.scheduleCheck()
		}
	case checkMatch:
		if c.generation != r.generation {
			return
		}
		r.matchTimer = nil
		r.resolve()
	case Snapshot:
		c.Reply <- r.buildSnapshot()
	}
}

func (r *Room) known(playerID string) bool {
	_, ok := r.clients[playerID]
	return ok
}

func (r *Room) handleJoin(c Join) {
	idNum := r.nextID
	playerID := fmt.Sprintf("p%d", idNum)
	r.nextID++
	r.clients[playerID] = c.Conn
	r.players.Store(int32(len(r.clients)))

	name := c.Name
	if name == "" {
		name = fmt.Sprintf("Player %d", idNum)
	}
	log.Printf("room %s: %s joined as %s", r.Code, name, playerID)

	r.sendTo(c.Conn, protocol.MsgWelcome, protocol.Welcome{PlayerID: playerID, Code: r.Code})
	r.sendTo(c.Conn, protocol.MsgState, r.buildSnapshot())
	if r.session.Phase() == game.PhaseIdle {
		r.sendTo(c.Conn, protocol.MsgPrompt, startPrompt())
	}
	c.Reply <- JoinResult{PlayerID: playerID}
}

func (r *Room) handleLeave(playerID string) {
	c, ok := r.clients[playerID]
	if ok {
		_ = c.Close()
		delete(r.clients, playerID)
		r.players.Store(int32(len(r.clients)))
		log.Printf("room %s: %s left", r.Code, playerID)
	}
	if len(r.clients) == 0 && r.OnEmpty != nil && r.Code != "" {
		r.OnEmpty(r.Code)
	}
}

func (r *Room) removePlayer(playerID string) {
	if c, ok := r.clients[playerID]; ok {
		_ = c.Close()
	}
	delete(r.clients, playerID)
	r.players.Store(int32(len(r.clients)))
}

// startGame handles both start and restart: whatever the previous game left
// scheduled is cancelled before the board is reset and a fresh ticker starts.
func (r *Room) startGame() {
	r.cancelTimers()
	r.generation++
	r.session.Start()
	r.ticker = time.NewTicker(r.opts.TickInterval)
}

func (r *Room) scheduleCheck() {
	if r.opts.MatchDelay == 0 {
		r.resolve()
		return
	}
	gen := r.generation
	r.matchTimer = time.AfterFunc(r.opts.MatchDelay, func() {
		select {
		case r.Inbox <- checkMatch{generation: gen}:
		case <-r.quit:
		}
	})
}

func (r *Room) resolve() {
	res, ok := r.session.Resolve()
	if !ok || !res.Won {
		return
	}
	r.stopTicker()
	sum := r.session.Summary()
	log.Printf("room %s: won in %ds with %d moves (%d stars)", r.Code, sum.Time, sum.Moves, sum.Stars)
	if r.OnWin != nil {
		r.OnWin(r.Code, sum)
	}
}

func (r *Room) stopTicker() {
	if r.ticker != nil {
		r.ticker.Stop()
		r.ticker = nil
	}
}

func (r *Room) cancelTimers() {
	r.stopTicker()
	if r.matchTimer != nil {
		r.matchTimer.Stop()
		r.matchTimer = nil
	}
}

func (r *Room) broadcast(t string, payload any) {
	b, err := protocol.Encode(t, payload)
	if err != nil {
		log.Printf("room %s: encode %s: %v", r.Code, t, err)
		return
	}

	var failed []string
	for id, c := range r.clients {
		if err := c.Send(b); err != nil {
			failed = append(failed, id)
		}
	}
	for _, id := range failed {
		r.removePlayer(id)
	}
}

func (r *Room) sendTo(c Conn, t string, payload any) {
	if c == nil {
		return
	}
	b, err := protocol.Encode(t, payload)
	if err != nil {
		return
	}
	_ = c.Send(b)
}

func (r *Room) buildSnapshot() protocol.State {
	score := r.session.Score()
	phase := r.session.Phase()
	snapshot := protocol.State{
		Phase:        phase.String(),
		Moves:        score.Moves,
		Time:         score.Time,
		Stars:        score.Stars,
		TimerRunning: r.ticker != nil,
		Cards:        make([]protocol.CardSnapshot, 0, game.DeckSize),
	}
	for pos := 0; pos < game.DeckSize; pos++ {
		sym, state, _ := r.session.Card(pos)
		cs := protocol.CardSnapshot{Position: pos, State: state.String()}
		if phase != game.PhaseIdle {
			cs.Symbol = sym.String()
		}
		snapshot.Cards = append(snapshot.Cards, cs)
	}
	return snapshot
}
