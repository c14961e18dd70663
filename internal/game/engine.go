package game

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/lox/holdem/internal/randutil"
	"github.com/lox/holdem/poker"
)

// ActionRecord is one action taken in a hand
type ActionRecord struct {
	PlayerID string `json:"player_id"`
	Action   Action `json:"action"`
	// Amount is the chips the action put in
	Amount int `json:"amount"`
	// Total is the player's bet on the street after the action
	Total  int   `json:"total"`
	Phase  Phase `json:"phase"`
	Forced bool  `json:"forced,omitempty"`
}

// Transition is the engine call a caller should make next
type Transition int

const (
	// AwaitAction means the current player owes a decision, or no hand is running
	AwaitAction Transition = iota
	// AdvanceDue means the betting round is complete and another street follows
	AdvanceDue
	// SettleDue means the hand is decided or only needs the board run out
	SettleDue
	// ResetDue means the hand has been settled
	ResetDue
)

var transitionNames = [...]string{"await-action", "advance", "settle", "reset"}

func (t Transition) String() string {
	if t < 0 || int(t) >= len(transitionNames) {
		return fmt.Sprintf("transition(%d)", int(t))
	}
	return transitionNames[t]
}

// Stats counts players by state
type Stats struct {
	Players int `json:"players"`
	Active  int `json:"active"`
	AllIn   int `json:"all_in"`
	Busted  int `json:"busted"`
}

// Engine owns the authoritative state of one table's hands. It is not safe
// for concurrent use; callers serialize access per table.
type Engine struct {
	players  []*Player
	busted   []string
	lastSeen []string // roster of the previous hand, for dealer rotation

	dealerID string
	dealer   int
	sb, bb   int
	posted   [2]int // chips actually put in for the small and big blind
	current  int

	board   []poker.Card
	phase   Phase
	betting *BettingManager
	blinds  Blinds
	dealt   bool

	deck  *poker.Deck
	decks []*poker.Deck
	rng   *rand.Rand

	handID     string
	handNumber int
	lastAction *ActionRecord
	history    []ActionRecord
	settlement *Settlement

	headsUp    HeadsUpRule
	nextHandID func() string
	logger     *log.Logger
}

// NewEngine creates an engine waiting for its first hand
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		phase:   Waiting,
		current: -1,
		dealer:  -1,
		betting: NewBettingManager(0),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = randutil.Random()
	}
	if e.logger == nil {
		e.logger = defaultLogger()
	}
	if e.nextHandID == nil {
		e.nextHandID = defaultHandIDs()
	}
	return e
}

// InitializeHand starts a new hand. The offered seats become the roster in
// order: known ids keep the stack the engine tracked, new ids bring their own
// stack, and busted ids stay out. The dealer button moves to the next seat,
// blinds are posted and hole cards dealt.
func (e *Engine) InitializeHand(seats []Seat, blinds Blinds) error {
	switch e.phase {
	case Waiting, Showdown:
	default:
		return &InvalidPhaseError{Op: "initialize hand", Phase: e.phase, Reason: "a hand is in progress"}
	}
	if err := blinds.validate(); err != nil {
		return err
	}

	roster, err := e.mergeRoster(seats)
	if err != nil {
		return err
	}
	if len(roster) < 2 {
		return &InvalidPhaseError{Op: "initialize hand", Phase: e.phase, Reason: "need at least two funded players"}
	}

	e.ResetForNewHand()
	e.players = roster
	e.dealer = e.nextDealer()
	e.dealerID = e.players[e.dealer].ID
	e.lastSeen = e.lastSeen[:0]
	for _, p := range e.players {
		e.lastSeen = append(e.lastSeen, p.ID)
	}

	e.blinds = blinds
	e.betting = NewBettingManager(blinds.Big)
	e.handNumber++
	e.handID = e.nextHandID()
	e.deck = e.nextDeck()
	e.phase = Preflop

	n := len(e.players)
	switch {
	case n > 2:
		e.sb = (e.dealer + 1) % n
		e.bb = (e.dealer + 2) % n
	case e.headsUp == DealerPostsBigBlind:
		e.sb = (e.dealer + 1) % n
		e.bb = e.dealer
	default:
		e.sb = e.dealer
		e.bb = (e.dealer + 1) % n
	}
	e.posted[0] = e.betting.PostBlind(e.players[e.sb], blinds.Small)
	e.posted[1] = e.betting.PostBlind(e.players[e.bb], blinds.Big)
	e.betting.OpenAt(blinds.Big)

	if err := e.DealHoleCards(); err != nil {
		return err
	}

	if n == 2 {
		e.current = e.nextToAct(e.sb)
	} else {
		e.current = e.nextToAct(e.bb + 1)
	}

	e.logger.Debug("Hand started",
		"hand", e.handID,
		"number", e.handNumber,
		"players", n,
		"dealer", e.dealerID,
		"small_blind", e.players[e.sb].ID,
		"big_blind", e.players[e.bb].ID,
	)
	return nil
}

func (e *Engine) mergeRoster(seats []Seat) ([]*Player, error) {
	known := make(map[string]*Player, len(e.players))
	for _, p := range e.players {
		known[p.ID] = p
	}
	gone := make(map[string]bool, len(e.busted))
	for _, id := range e.busted {
		gone[id] = true
	}

	roster := make([]*Player, 0, len(seats))
	seen := make(map[string]bool, len(seats))
	for _, s := range seats {
		if s.ID == "" {
			return nil, &InvalidPhaseError{Op: "initialize hand", Phase: e.phase, Reason: "a seat has no player id"}
		}
		if seen[s.ID] {
			return nil, &InvalidPhaseError{Op: "initialize hand", Phase: e.phase, Reason: fmt.Sprintf("player %q is seated twice", s.ID)}
		}
		seen[s.ID] = true
		if gone[s.ID] {
			continue
		}

		if p, ok := known[s.ID]; ok {
			if p.Stack == 0 {
				continue
			}
			if s.Name != "" {
				p.Name = s.Name
			}
			p.IsHost = s.IsHost
			roster = append(roster, p)
			continue
		}

		if s.Stack <= 0 {
			continue
		}
		name := s.Name
		if name == "" {
			name = s.ID
		}
		roster = append(roster, &Player{
			ID:     s.ID,
			Name:   name,
			Stack:  s.Stack,
			IsHost: s.IsHost,
		})
	}
	return roster, nil
}

// nextDealer moves the button one seat on from the previous dealer, skipping
// players who have since left or busted.
func (e *Engine) nextDealer() int {
	index := make(map[string]int, len(e.players))
	for i, p := range e.players {
		index[p.ID] = i
	}

	prev := -1
	for i, id := range e.lastSeen {
		if id == e.dealerID {
			prev = i
			break
		}
	}
	if prev < 0 {
		return 0
	}

	n := len(e.lastSeen)
	for step := 1; step <= n; step++ {
		if i, ok := index[e.lastSeen[(prev+step)%n]]; ok {
			return i
		}
	}
	return 0
}

func (e *Engine) nextDeck() *poker.Deck {
	if len(e.decks) > 0 {
		d := e.decks[0]
		e.decks = e.decks[1:]
		return d
	}
	return poker.NewDeck(e.rng)
}

// DealHoleCards deals two cards to each player in two passes starting left
// of the dealer. InitializeHand calls it; it fails once the cards are out.
func (e *Engine) DealHoleCards() error {
	if e.phase != Preflop || e.dealt {
		return &InvalidPhaseError{Op: "deal hole cards", Phase: e.phase, Reason: "hole cards are dealt once, at the start of a hand"}
	}

	n := len(e.players)
	for pass := 0; pass < 2; pass++ {
		for i := 1; i <= n; i++ {
			p := e.players[(e.dealer+i)%n]
			if !p.InHand() {
				continue
			}
			card, ok := e.deck.DealCard()
			if !ok {
				panic("deck exhausted dealing hole cards")
			}
			p.Cards = append(p.Cards, card)
		}
	}
	e.dealt = true
	return nil
}

// ProcessAction applies the current player's action. Amount is only read for
// Raise, where it is the increment above the player's current bet.
func (e *Engine) ProcessAction(playerID string, action Action, amount int) error {
	if !e.phase.IsBetting() {
		return &InvalidPhaseError{Op: "process action", Phase: e.phase, Reason: "no betting round in progress"}
	}

	idx, p := e.find(playerID)
	if p == nil {
		return &NotFoundError{PlayerID: playerID}
	}
	if !p.CanAct() {
		_, err := e.betting.Apply(p, action, amount)
		return annotate(err, e.phase, playerID)
	}
	if e.current < 0 {
		return &InvalidActionError{PlayerID: playerID, Action: action, Phase: e.phase, Reason: "betting round is closed"}
	}
	if idx != e.current {
		return &InvalidActionError{
			PlayerID: playerID,
			Action:   action,
			Phase:    e.phase,
			Reason:   fmt.Sprintf("not your turn, waiting on %s", e.players[e.current].ID),
		}
	}

	out, err := e.betting.Apply(p, action, amount)
	if err != nil {
		return annotate(err, e.phase, playerID)
	}

	p.HasActed = true
	if out.Reopened {
		for _, other := range e.players {
			if other != p {
				other.HasActed = false
			}
		}
	}
	e.record(ActionRecord{PlayerID: playerID, Action: action, Amount: out.Paid, Total: p.Bet, Phase: e.phase})

	e.logger.Debug("Action",
		"hand", e.handID,
		"phase", e.phase,
		"player", playerID,
		"action", action,
		"paid", out.Paid,
		"stack", p.Stack,
		"current_bet", e.betting.CurrentBet(),
		"pot", e.betting.Pot(),
	)

	e.current = e.nextToAct(idx + 1)
	return nil
}

// ForceFold folds a player regardless of turn order, for disconnects and
// timeouts. Folding a player who already folded is a no-op.
func (e *Engine) ForceFold(playerID string) error {
	if !e.phase.IsBetting() {
		return &InvalidPhaseError{Op: "force fold", Phase: e.phase, Reason: "no betting round in progress"}
	}
	idx, p := e.find(playerID)
	if p == nil {
		return &NotFoundError{PlayerID: playerID}
	}
	switch p.Status {
	case StatusFolded:
		return nil
	case StatusAllIn:
		return &InvalidActionError{PlayerID: playerID, Action: Fold, Phase: e.phase, Reason: "player is all-in"}
	}

	p.Status = StatusFolded
	p.HasActed = true
	e.record(ActionRecord{PlayerID: playerID, Action: Fold, Total: p.Bet, Phase: e.phase, Forced: true})
	e.logger.Debug("Forced fold", "hand", e.handID, "player", playerID, "phase", e.phase)

	switch {
	case e.current == idx:
		e.current = e.nextToAct(idx + 1)
	case e.current >= 0:
		e.current = e.nextToAct(e.current)
	}
	return nil
}

// nextToAct scans from seat start for a player who still owes a decision,
// returning -1 once the round is complete.
func (e *Engine) nextToAct(start int) int {
	if e.IsRoundComplete() {
		return -1
	}
	n := len(e.players)
	for i := 0; i < n; i++ {
		idx := (start + i) % n
		p := e.players[idx]
		if p.CanAct() && (!p.HasActed || p.Bet < e.betting.CurrentBet()) {
			return idx
		}
	}
	panic("betting round incomplete but nobody owes a decision")
}

// IsRoundComplete reports whether the current betting round needs no more decisions
func (e *Engine) IsRoundComplete() bool {
	if !e.phase.IsBetting() {
		return false
	}

	inHand, active := 0, 0
	for _, p := range e.players {
		if p.InHand() {
			inHand++
		}
		if p.CanAct() {
			active++
		}
	}
	if inHand <= 1 || active == 0 {
		return true
	}

	currentBet := e.betting.CurrentBet()
	if active == 1 && inHand > 1 {
		// Nobody left to bet against; the last player only has to match.
		for _, p := range e.players {
			if p.CanAct() {
				return p.Bet >= currentBet
			}
		}
	}

	for _, p := range e.players {
		if p.CanAct() && (!p.HasActed || p.Bet != currentBet) {
			return false
		}
	}
	return true
}

// AdvanceStreet deals the next street once the current round is complete
func (e *Engine) AdvanceStreet() error {
	switch e.phase {
	case Preflop, Flop, Turn:
	default:
		return &InvalidPhaseError{Op: "advance street", Phase: e.phase, Reason: "only preflop, flop and turn advance"}
	}
	if !e.IsRoundComplete() {
		return &InvalidPhaseError{Op: "advance street", Phase: e.phase, Reason: "betting round is not complete"}
	}
	if e.countInHand() < 2 {
		return &InvalidPhaseError{Op: "advance street", Phase: e.phase, Reason: "one player left, settle the hand"}
	}

	e.nextStreet()
	return nil
}

func (e *Engine) nextStreet() {
	for _, p := range e.players {
		p.Bet = 0
		p.HasActed = false
	}
	e.betting.NewStreet()

	count := 1
	if e.phase == Preflop {
		count = 3
	}
	if !e.deck.Burn() {
		panic("deck exhausted burning a card")
	}
	cards := e.deck.DealCards(count)
	if cards == nil {
		panic("deck exhausted dealing the board")
	}
	e.board = append(e.board, cards...)
	e.phase++

	e.current = e.nextToAct(e.dealer + 1)

	e.logger.Debug("Street dealt",
		"hand", e.handID,
		"phase", e.phase,
		"board", poker.FormatCards(e.board),
		"pot", e.betting.Pot(),
	)
}

// runOutOnly reports whether the rest of the board can be dealt without
// asking anyone for a decision.
func (e *Engine) runOutOnly() bool {
	active := 0
	for _, p := range e.players {
		if p.CanAct() {
			active++
			if p.Bet < e.betting.CurrentBet() {
				return false
			}
		}
	}
	return active <= 1
}

// Pending reports which transition the caller should make next
func (e *Engine) Pending() Transition {
	switch {
	case e.phase == Showdown:
		return ResetDue
	case !e.phase.IsBetting():
		return AwaitAction
	case !e.IsRoundComplete():
		return AwaitAction
	case e.countInHand() <= 1, e.phase == River, e.runOutOnly():
		return SettleDue
	default:
		return AdvanceDue
	}
}

// ResetForNewHand clears per-hand state and drops busted players. The dealer
// position is kept so the next hand moves the button on. Resetting in the
// middle of a hand abandons it and returns every contribution.
func (e *Engine) ResetForNewHand() {
	if e.phase.IsBetting() {
		for _, p := range e.players {
			p.Stack += p.Contributed
		}
		e.logger.Warn("Hand abandoned, contributions returned", "hand", e.handID, "phase", e.phase)
	}

	kept := e.players[:0]
	for _, p := range e.players {
		if p.Status == StatusBusted {
			e.busted = append(e.busted, p.ID)
			continue
		}
		p.resetForHand()
		kept = append(kept, p)
	}
	e.players = kept

	e.board = nil
	e.phase = Waiting
	e.current = -1
	e.dealt = false
	e.lastAction = nil
	e.history = nil
	e.settlement = nil
	e.betting = NewBettingManager(e.blinds.Big)
}

func (e *Engine) record(a ActionRecord) {
	e.history = append(e.history, a)
	e.lastAction = &e.history[len(e.history)-1]
}

func (e *Engine) find(id string) (int, *Player) {
	for i, p := range e.players {
		if p.ID == id {
			return i, p
		}
	}
	return -1, nil
}

func (e *Engine) countInHand() int {
	n := 0
	for _, p := range e.players {
		if p.InHand() {
			n++
		}
	}
	return n
}

// Legal returns the legal actions for a player. It is empty unless it is the
// player's turn.
func (e *Engine) Legal(playerID string) (Legal, error) {
	idx, p := e.find(playerID)
	if p == nil {
		return Legal{}, &NotFoundError{PlayerID: playerID}
	}
	if !e.phase.IsBetting() || idx != e.current {
		return Legal{}, nil
	}
	return e.betting.Legal(p), nil
}

// Player returns a copy of the player's current record
func (e *Engine) Player(id string) (Player, bool) {
	_, p := e.find(id)
	if p == nil {
		return Player{}, false
	}
	return p.clone(), true
}

// Players returns copies of every seated player in seat order
func (e *Engine) Players() []Player {
	out := make([]Player, len(e.players))
	for i, p := range e.players {
		out[i] = p.clone()
	}
	return out
}

// Stats counts seated players by state; Busted includes players already dropped
func (e *Engine) Stats() Stats {
	s := Stats{Players: len(e.players), Busted: len(e.busted)}
	for _, p := range e.players {
		switch p.Status {
		case StatusActive:
			s.Active++
		case StatusAllIn:
			s.AllIn++
		case StatusBusted:
			s.Busted++
		}
	}
	return s
}

// CurrentPlayer returns the id of the player who owes a decision
func (e *Engine) CurrentPlayer() (string, bool) {
	if e.current < 0 || !e.phase.IsBetting() {
		return "", false
	}
	return e.players[e.current].ID, true
}

// Phase is the current street, or Waiting/Showdown between hands
func (e *Engine) Phase() Phase { return e.phase }

// HandID identifies the current or last hand
func (e *Engine) HandID() string { return e.handID }

// HandNumber counts hands started by this engine, from one
func (e *Engine) HandNumber() int { return e.handNumber }

// Blinds are the stakes of the current or last hand
func (e *Engine) Blinds() Blinds { return e.blinds }

// DealerIndex is the button's seat index in Players
func (e *Engine) DealerIndex() int { return e.dealer }

// CurrentPlayerIndex is the seat owing a decision, or -1
func (e *Engine) CurrentPlayerIndex() int { return e.current }

// CurrentBet is the street's bet level
func (e *Engine) CurrentBet() int { return e.betting.CurrentBet() }

// MinRaise is the smallest full raise increment
func (e *Engine) MinRaise() int { return e.betting.MinRaise() }

// LastAction is the most recent entry in Actions, or nil
func (e *Engine) LastAction() *ActionRecord { return e.lastAction }

// Actions returns every action taken this hand, oldest first. Blind posts
// are not actions.
func (e *Engine) Actions() []ActionRecord { return slices.Clone(e.history) }

// BlindPosters returns the ids of the players who posted the small and big
// blind this hand; both are empty before the first hand.
func (e *Engine) BlindPosters() (small, big string) {
	if e.phase == Waiting || e.sb >= len(e.players) || e.bb >= len(e.players) {
		return "", ""
	}
	return e.players[e.sb].ID, e.players[e.bb].ID
}

// PostedBlinds returns the chips the blind posters actually put in, which is
// less than the blind when a poster was all-in for less.
func (e *Engine) PostedBlinds() (small, big int) {
	if e.phase == Waiting {
		return 0, 0
	}
	return e.posted[0], e.posted[1]
}

// Settlement is the outcome of the last settled hand, nil until Settle
func (e *Engine) Settlement() *Settlement { return e.settlement }

// Pot is every chip wagered this hand, including bets not yet collected
func (e *Engine) Pot() int { return e.betting.Pot() }

// Collected is the part of the pot no longer sitting in front of players
func (e *Engine) Collected() int {
	bets := 0
	for _, p := range e.players {
		bets += p.Bet
	}
	return e.betting.Pot() - bets
}

// Board returns a copy of the community cards
func (e *Engine) Board() []poker.Card {
	return append([]poker.Card(nil), e.board...)
}

// Busted lists the ids of players who have busted at this table
func (e *Engine) Busted() []string {
	return append([]string(nil), e.busted...)
}

// TotalChips is every chip at the table: stacks plus the pot
func (e *Engine) TotalChips() int {
	total := 0
	for _, p := range e.players {
		total += p.Stack
	}
	if e.phase.IsBetting() {
		total += e.betting.Pot()
	}
	return total
}
