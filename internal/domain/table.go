package domain

// HandStatus is the engine's per-hand status byte for Blackjack.
// Pending hands are the split stack waiting behind the active hand.
type HandStatus uint8

const (
	HandPending HandStatus = iota
	HandPlaying
	HandStand
	HandBust
	HandBlackjack
)

func (s HandStatus) String() string {
	switch s {
	case HandPending:
		return "pending"
	case HandPlaying:
		return "playing"
	case HandStand:
		return "stand"
	case HandBust:
		return "bust"
	case HandBlackjack:
		return "blackjack"
	}
	return "unknown"
}

// BlackjackHand is one of potentially several hands (after splits).
// Multiplier is the engine's bet multiplier byte; 0 and 1 both mean the
// base bet, 2 means the hand was doubled.
type BlackjackHand struct {
	Cards      []Card
	Status     HandStatus
	Multiplier uint8
}

// Total returns the blackjack hand total, demoting aces from 11 to 1
// while the total would bust.
func (h BlackjackHand) Total() int {
	total, aces := 0, 0
	for _, c := range h.Cards {
		total += c.Value()
		if c.Rank == 0 {
			aces++
		}
	}
	for total > 21 && aces > 0 {
		total -= 10
		aces--
	}
	return total
}

// BlackjackTable is the decoded Blackjack projection. ActiveHand indexes the
// hand currently in play; when it is >= len(Hands) every hand is finished and
// the last hand is the one to display.
type BlackjackTable struct {
	Hands      []BlackjackHand
	ActiveHand int
	Dealer     []Card
	Stage      Stage
}

// DisplayHand returns the index of the hand the projection should show.
func (t BlackjackTable) DisplayHand() int {
	if len(t.Hands) == 0 {
		return 0
	}
	if t.ActiveHand >= len(t.Hands) {
		return len(t.Hands) - 1
	}
	return t.ActiveHand
}

// HiLoTable is the decoded Hi-Lo projection. Accumulator is expressed in
// basis points of the base bet (10000 = 1.0x). History is maintained by the
// dispatcher, which appends a card only when it differs from the last known
// one because events may redeliver the current card.
type HiLoTable struct {
	Current     Card
	Accumulator int64
	History     []Card
}

// Pot returns the cash-out value for the given base bet:
// floor(bet * accumulator / 10000). A non-positive accumulator pays nothing.
func (t HiLoTable) Pot(bet uint64) uint64 {
	if t.Accumulator <= 0 {
		return 0
	}
	acc := uint64(t.Accumulator)
	return bet/10000*acc + bet%10000*acc/10000
}

// BaccaratTable is the decoded Baccarat projection. A blob that ends before
// any cards were dealt leaves Dealt false, which is the betting sub-stage.
type BaccaratTable struct {
	Bets   []Bet
	Player []Card
	Banker []Card
	Dealt  bool
}

// VideoPokerTable is the decoded Video Poker projection.
type VideoPokerTable struct {
	Cards    []Card
	Resolved bool
}

// WarTable is the decoded Casino War projection. TieWar means the engine is
// waiting on a war-or-surrender decision; round completion is only ever
// signaled by the Completed event, never by this flag.
type WarTable struct {
	Player Card
	Dealer Card
	TieWar bool
}

// ThreeCardTable is the decoded Three Card Poker projection. Dealer cards
// arrive face-down and are revealed at showdown.
type ThreeCardTable struct {
	Player   []Card
	Dealer   []Card
	Showdown bool
}

// HoldemTable is the decoded Ultimate Hold'em projection. Street gates the
// raise offer: 0=preflop (3x/4x), 1=flop (2x), 2=river (1x or fold),
// 3=showdown.
type HoldemTable struct {
	Street    uint8
	Player    []Card
	Dealer    []Card
	Community []Card
}

// CrapsTable is the decoded Craps projection. RollHistory is maintained by
// the dispatcher: a seven while a point is on replaces the history with a
// single 7 entry, any other roll appends.
type CrapsTable struct {
	OnPoint     bool
	Point       uint8
	Dice        [2]uint8
	Bets        []Bet
	RollHistory []int
}

// RouletteTable is the decoded Roulette projection. HasResult tracks whether
// the blob carried the trailing pocket byte.
type RouletteTable struct {
	Bets      []Bet
	Pocket    uint8
	HasResult bool
}

// SicBoTable is the decoded Sic Bo projection.
type SicBoTable struct {
	Bets   []Bet
	Dice   [3]uint8
	Rolled bool
}

// TableState is the canonical cross-game projection: everything the
// surrounding app needs to render the active session, independent of which
// game is running. Decoders replace its fields atomically; a failed decode
// must leave it untouched.
type TableState struct {
	Game    GameType
	Stage   Stage
	Message string
	Bet     uint64

	// Unconfirmed marks a locally predicted projection the engine has not
	// yet echoed back in an event.
	Unconfirmed bool

	PlayerCards    []Card
	DealerCards    []Card
	CommunityCards []Card

	// Bet builder for the bet-driven games. Queued bets are local-only until
	// the post-start continuation submits them; ActiveBets is the
	// engine-confirmed list echoed back in state blobs.
	Queued     []Bet
	UndoStack  [][]Bet
	ActiveBets []Bet
	LastRound  []Bet
	InputMode  InputMode

	LastResult int64

	Blackjack  BlackjackTable
	HiLo       HiLoTable
	Baccarat   BaccaratTable
	VideoPoker VideoPokerTable
	War        WarTable
	ThreeCard  ThreeCardTable
	Holdem     HoldemTable
	Craps      CrapsTable
	Roulette   RouletteTable
	SicBo      SicBoTable
}

// QueueBet snapshots the queue for undo and appends the bet.
func (t *TableState) QueueBet(b Bet) {
	t.UndoStack = append(t.UndoStack, cloneBets(t.Queued))
	t.Queued = append(t.Queued, b)
}

// UndoBet restores the queue to its previous snapshot. Returns false when
// there is nothing to undo.
func (t *TableState) UndoBet() bool {
	if len(t.UndoStack) == 0 {
		return false
	}
	t.Queued = t.UndoStack[len(t.UndoStack)-1]
	t.UndoStack = t.UndoStack[:len(t.UndoStack)-1]
	return true
}

// ConsumeBets moves the round's bets into LastRound and clears the builder.
// Called when a round resolves so one-key rebet can replay them.
func (t *TableState) ConsumeBets() {
	if len(t.ActiveBets) > 0 {
		t.LastRound = cloneBets(t.ActiveBets)
	} else if len(t.Queued) > 0 {
		t.LastRound = cloneBets(t.Queued)
	}
	t.Queued = nil
	t.UndoStack = nil
	t.ActiveBets = nil
}

// Rebet restores LastRound into the queue. Returns false when there is no
// previous round to replay.
func (t *TableState) Rebet() bool {
	if len(t.LastRound) == 0 {
		return false
	}
	t.UndoStack = append(t.UndoStack, cloneBets(t.Queued))
	t.Queued = append(cloneBets(t.LastRound), t.Queued...)
	return true
}

// QueuedTotal sums the amounts currently queued, for affordability checks
// by the caller.
func (t *TableState) QueuedTotal() uint64 {
	var sum uint64
	for _, b := range t.Queued {
		sum += b.Amount
	}
	return sum
}

// RevealAll clears every hidden flag. The result stage always shows the
// full board.
func (t *TableState) RevealAll() {
	reveal(t.PlayerCards)
	reveal(t.DealerCards)
	reveal(t.CommunityCards)
	reveal(t.Blackjack.Dealer)
	reveal(t.ThreeCard.Dealer)
	reveal(t.Holdem.Dealer)
	reveal(t.Holdem.Community)
	t.War.Dealer.Hidden = false
}

func reveal(cards []Card) {
	for i := range cards {
		cards[i].Hidden = false
	}
}

// Clone returns a deep copy safe to hand across goroutines while the
// original keeps mutating under the owner's lock.
func (t *TableState) Clone() TableState {
	out := *t
	out.PlayerCards = cloneCards(t.PlayerCards)
	out.DealerCards = cloneCards(t.DealerCards)
	out.CommunityCards = cloneCards(t.CommunityCards)
	out.Queued = cloneBets(t.Queued)
	out.ActiveBets = cloneBets(t.ActiveBets)
	out.LastRound = cloneBets(t.LastRound)
	out.UndoStack = make([][]Bet, len(t.UndoStack))
	for i, snap := range t.UndoStack {
		out.UndoStack[i] = cloneBets(snap)
	}
	if len(t.UndoStack) == 0 {
		out.UndoStack = nil
	}

	out.Blackjack.Hands = make([]BlackjackHand, len(t.Blackjack.Hands))
	for i, h := range t.Blackjack.Hands {
		h.Cards = cloneCards(h.Cards)
		out.Blackjack.Hands[i] = h
	}
	if len(t.Blackjack.Hands) == 0 {
		out.Blackjack.Hands = nil
	}
	out.Blackjack.Dealer = cloneCards(t.Blackjack.Dealer)
	out.HiLo.History = cloneCards(t.HiLo.History)
	out.Baccarat.Bets = cloneBets(t.Baccarat.Bets)
	out.Baccarat.Player = cloneCards(t.Baccarat.Player)
	out.Baccarat.Banker = cloneCards(t.Baccarat.Banker)
	out.VideoPoker.Cards = cloneCards(t.VideoPoker.Cards)
	out.ThreeCard.Player = cloneCards(t.ThreeCard.Player)
	out.ThreeCard.Dealer = cloneCards(t.ThreeCard.Dealer)
	out.Holdem.Player = cloneCards(t.Holdem.Player)
	out.Holdem.Dealer = cloneCards(t.Holdem.Dealer)
	out.Holdem.Community = cloneCards(t.Holdem.Community)
	out.Craps.Bets = cloneBets(t.Craps.Bets)
	if len(t.Craps.RollHistory) > 0 {
		out.Craps.RollHistory = append([]int(nil), t.Craps.RollHistory...)
	}
	out.Roulette.Bets = cloneBets(t.Roulette.Bets)
	out.SicBo.Bets = cloneBets(t.SicBo.Bets)
	return out
}

func cloneCards(cards []Card) []Card {
	if len(cards) == 0 {
		return nil
	}
	out := make([]Card, len(cards))
	copy(out, cards)
	return out
}

func cloneBets(bets []Bet) []Bet {
	if len(bets) == 0 {
		return nil
	}
	out := make([]Bet, len(bets))
	copy(out, bets)
	return out
}
