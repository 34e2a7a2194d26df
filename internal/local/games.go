package local

import (
	"fmt"

	"felt/internal/domain"
	"felt/internal/wire"
)

// hiloBase is the starting accumulator: 1.0x in basis points.
const hiloBase = 10000

// session is one round of a single game. Only the active game's table is
// populated; the rest stay zero.
type session struct {
	id        uint64
	game      domain.GameType
	bet       uint64
	raise     uint8
	completed bool
	shoe      *shoe

	bj       domain.BlackjackTable
	hilo     domain.HiLoTable
	baccarat domain.BaccaratTable
	vp       domain.VideoPokerTable
	war      domain.WarTable
	three    domain.ThreeCardTable
	holdem   domain.HoldemTable
	craps    domain.CrapsTable
	roulette domain.RouletteTable
	sicbo    domain.SicBoTable
}

// encode produces the state blob the client decoders expect for this game.
func (s *session) encode() []byte {
	switch s.game {
	case domain.Blackjack:
		return wire.EncodeBlackjackState(s.bj)
	case domain.VideoPoker:
		return wire.EncodeVideoPokerState(s.vp)
	case domain.HiLo:
		return wire.EncodeHiLoState(s.hilo)
	case domain.Baccarat:
		return wire.EncodeBaccaratState(s.baccarat)
	case domain.CasinoWar:
		return wire.EncodeWarState(s.war)
	case domain.ThreeCard:
		return wire.EncodeThreeCardState(s.three)
	case domain.UltimateHoldem:
		return wire.EncodeHoldemState(s.holdem)
	case domain.Craps:
		return wire.EncodeCrapsState(s.craps)
	case domain.Roulette:
		return wire.EncodeRouletteState(s.roulette)
	case domain.SicBo:
		return wire.EncodeSicBoState(s.sicbo)
	default:
		panic(fmt.Sprintf("local: unhandled game type %d", s.game))
	}
}

// dealOpening deals the opening state and resolves rounds that end on the
// deal itself: a war that is not a tie, a natural blackjack.
func (e *Engine) dealOpening(s *session) []event {
	switch s.game {
	case domain.Blackjack:
		s.bj = domain.BlackjackTable{
			Hands: []domain.BlackjackHand{{
				Cards:      s.shoe.drawN(2),
				Status:     domain.HandPlaying,
				Multiplier: 1,
			}},
			Dealer: s.shoe.drawN(2),
			Stage:  domain.StagePlaying,
		}
		evs := []event{startedEvent(s)}
		if s.bj.Hands[0].Total() == 21 {
			s.bj.Hands[0].Status = domain.HandBlackjack
			evs = append(evs, e.resolveBlackjack(s)...)
		}
		return evs
	case domain.VideoPoker:
		s.vp = domain.VideoPokerTable{Cards: s.shoe.drawN(5)}
		return []event{startedEvent(s)}
	case domain.HiLo:
		s.hilo = domain.HiLoTable{Current: s.shoe.draw(), Accumulator: hiloBase}
		return []event{startedEvent(s)}
	case domain.CasinoWar:
		s.war = domain.WarTable{Player: s.shoe.draw(), Dealer: s.shoe.draw()}
		po, do := aceHighOrder(s.war.Player), aceHighOrder(s.war.Dealer)
		s.war.TieWar = po == do
		evs := []event{startedEvent(s)}
		switch {
		case po > do:
			evs = append(evs, e.settle(s, int64(s.bet))...)
		case po < do:
			evs = append(evs, e.settle(s, -int64(s.bet))...)
		}
		return evs
	case domain.ThreeCard:
		s.three = domain.ThreeCardTable{Player: s.shoe.drawN(3), Dealer: s.shoe.drawN(3)}
		return []event{startedEvent(s)}
	case domain.UltimateHoldem:
		s.holdem = domain.HoldemTable{
			Player:    s.shoe.drawN(2),
			Dealer:    s.shoe.drawN(2),
			Community: s.shoe.drawN(5),
		}
		return []event{startedEvent(s)}
	case domain.Baccarat, domain.Craps, domain.Roulette, domain.SicBo:
		return []event{startedEvent(s)}
	default:
		panic(fmt.Sprintf("local: unhandled game type %d", s.game))
	}
}

func (e *Engine) dispatchMove(s *session, mv wire.Move) ([]event, error) {
	switch s.game {
	case domain.Blackjack:
		return e.moveBlackjack(s, mv)
	case domain.VideoPoker:
		return e.moveVideoPoker(s, mv)
	case domain.HiLo:
		return e.moveHiLo(s, mv)
	case domain.Baccarat:
		return e.moveBaccarat(s, mv)
	case domain.CasinoWar:
		return e.moveWar(s, mv)
	case domain.ThreeCard:
		return e.moveThreeCard(s, mv)
	case domain.UltimateHoldem:
		return e.moveHoldem(s, mv)
	case domain.Craps:
		return e.moveCraps(s, mv)
	case domain.Roulette:
		return e.moveRoulette(s, mv)
	case domain.SicBo:
		return e.moveSicBo(s, mv)
	default:
		panic(fmt.Sprintf("local: unhandled game type %d", s.game))
	}
}

func stakeMult(m uint8) int64 {
	if m < 2 {
		return 1
	}
	return int64(m)
}

func (e *Engine) moveBlackjack(s *session, mv wire.Move) ([]event, error) {
	if s.bj.ActiveHand >= len(s.bj.Hands) {
		return nil, ErrBadMove
	}
	hand := &s.bj.Hands[s.bj.ActiveHand]
	switch mv.Code {
	case wire.MoveHit:
		hand.Cards = append(hand.Cards, s.shoe.draw())
		if hand.Total() > 21 {
			hand.Status = domain.HandBust
			return e.advanceBlackjack(s), nil
		}
		return []event{movedEvent(s)}, nil
	case wire.MoveStand:
		hand.Status = domain.HandStand
		return e.advanceBlackjack(s), nil
	case wire.MoveDouble:
		if len(hand.Cards) != 2 {
			return nil, ErrBadMove
		}
		hand.Multiplier = 2
		hand.Cards = append(hand.Cards, s.shoe.draw())
		if hand.Total() > 21 {
			hand.Status = domain.HandBust
		} else {
			hand.Status = domain.HandStand
		}
		return e.advanceBlackjack(s), nil
	case wire.MoveSplit:
		if len(hand.Cards) != 2 || hand.Cards[0].Rank != hand.Cards[1].Rank {
			return nil, ErrBadMove
		}
		second := hand.Cards[1]
		hand.Cards = []domain.Card{hand.Cards[0], s.shoe.draw()}
		s.bj.Hands = append(s.bj.Hands, domain.BlackjackHand{
			Cards:      []domain.Card{second, s.shoe.draw()},
			Status:     domain.HandPending,
			Multiplier: 1,
		})
		return []event{movedEvent(s)}, nil
	default:
		return nil, ErrBadMove
	}
}

// advanceBlackjack moves play to the next split hand, or to the dealer once
// every hand is finished.
func (e *Engine) advanceBlackjack(s *session) []event {
	for i := s.bj.ActiveHand + 1; i < len(s.bj.Hands); i++ {
		if s.bj.Hands[i].Status == domain.HandPending {
			s.bj.ActiveHand = i
			s.bj.Hands[i].Status = domain.HandPlaying
			return []event{movedEvent(s)}
		}
	}
	return e.resolveBlackjack(s)
}

func (e *Engine) resolveBlackjack(s *session) []event {
	// The dealer only plays out when a standing hand needs the comparison;
	// busts and naturals settle against the dealt cards alone.
	needDealer := false
	for _, h := range s.bj.Hands {
		if h.Status == domain.HandStand {
			needDealer = true
		}
	}
	dealer := domain.BlackjackHand{Cards: s.bj.Dealer}
	if needDealer {
		for dealer.Total() < 17 {
			s.bj.Dealer = append(s.bj.Dealer, s.shoe.draw())
			dealer.Cards = s.bj.Dealer
		}
	}
	s.bj.ActiveHand = len(s.bj.Hands)
	s.bj.Stage = domain.StageResult

	dt := dealer.Total()
	dealerNatural := dt == 21 && len(s.bj.Dealer) == 2
	var payout int64
	for _, h := range s.bj.Hands {
		stake := int64(s.bet) * stakeMult(h.Multiplier)
		switch {
		case h.Status == domain.HandBust:
			payout -= stake
		case h.Status == domain.HandBlackjack:
			if dealerNatural {
				break
			}
			payout += stake * 3 / 2
		case dt > 21 || h.Total() > dt:
			payout += stake
		case h.Total() == dt:
			// push
		default:
			payout -= stake
		}
	}
	evs := []event{movedEvent(s)}
	return append(evs, e.settle(s, payout)...)
}

func (e *Engine) moveVideoPoker(s *session, mv wire.Move) ([]event, error) {
	if s.vp.Resolved {
		return nil, ErrBadMove
	}
	for i := 0; i < 5; i++ {
		if mv.Code&(1<<i) == 0 {
			s.vp.Cards[i] = s.shoe.draw()
		}
	}
	s.vp.Resolved = true
	mult, name := videoPokerClass(s.vp.Cards)
	if name != "" {
		e.log.Debug("video poker resolved: %s", name)
	}
	payout := int64(s.bet) * (mult - 1)
	evs := []event{movedEvent(s)}
	return append(evs, e.settle(s, payout)...), nil
}

func (e *Engine) moveHiLo(s *session, mv wire.Move) ([]event, error) {
	if mv.Action == wire.ActionTrigger {
		payout := int64(s.hilo.Pot(s.bet)) - int64(s.bet)
		return e.settle(s, payout), nil
	}
	next := s.shoe.draw()
	po, no := aceHighOrder(s.hilo.Current), aceHighOrder(next)
	s.hilo.Current = next
	correct := no > po
	if mv.Code == wire.GuessLower {
		correct = no < po
	}
	switch {
	case no == po:
		// Push: the run continues at the same accumulator.
	case correct:
		s.hilo.Accumulator = s.hilo.Accumulator * 13 / 10
	default:
		s.hilo.Accumulator = 0
		evs := []event{movedEvent(s)}
		return append(evs, e.settle(s, -int64(s.bet))...), nil
	}
	return []event{movedEvent(s)}, nil
}

func baccaratPoints(cards []domain.Card) int {
	total := 0
	for _, c := range cards {
		if c.Rank < 9 {
			total += int(c.Rank) + 1
		}
	}
	return total % 10
}

func (e *Engine) moveBaccarat(s *session, mv wire.Move) ([]event, error) {
	switch mv.Action {
	case wire.ActionBet:
		if s.baccarat.Dealt {
			return nil, ErrBadMove
		}
		if err := e.checkStake(stakeTotal(s.baccarat.Bets), mv.Bet.Amount); err != nil {
			return nil, err
		}
		s.baccarat.Bets = append(s.baccarat.Bets, mv.Bet)
		return []event{movedEvent(s)}, nil
	case wire.ActionClear:
		if s.baccarat.Dealt {
			return nil, ErrBadMove
		}
		s.baccarat.Bets = nil
		return []event{movedEvent(s)}, nil
	case wire.ActionTrigger:
		if len(s.baccarat.Bets) == 0 {
			return nil, ErrNoBets
		}
		p, b := s.shoe.drawN(2), s.shoe.drawN(2)
		if baccaratPoints(p) < 8 && baccaratPoints(b) < 8 {
			if baccaratPoints(p) <= 5 {
				p = append(p, s.shoe.draw())
			}
			if baccaratPoints(b) <= 5 {
				b = append(b, s.shoe.draw())
			}
		}
		s.baccarat.Player, s.baccarat.Banker, s.baccarat.Dealt = p, b, true
		pt, bt := baccaratPoints(p), baccaratPoints(b)
		var payout int64
		for _, bet := range s.baccarat.Bets {
			payout += baccaratPayout(bet, p, b, pt, bt)
		}
		evs := []event{movedEvent(s)}
		return append(evs, e.settle(s, payout)...), nil
	default:
		return nil, ErrBadMove
	}
}

func baccaratPayout(bet domain.Bet, player, banker []domain.Card, pt, bt int) int64 {
	amt := int64(bet.Amount)
	switch bet.Kind {
	case domain.BaccaratPlayer:
		switch {
		case pt > bt:
			return amt
		case pt == bt:
			return 0
		}
		return -amt
	case domain.BaccaratBanker:
		switch {
		case bt > pt:
			return amt * 95 / 100
		case pt == bt:
			return 0
		}
		return -amt
	case domain.BaccaratTie:
		if pt == bt {
			return amt * 8
		}
		return -amt
	case domain.BaccaratPlayerPair:
		if player[0].Rank == player[1].Rank {
			return amt * 11
		}
		return -amt
	case domain.BaccaratBankerPair:
		if banker[0].Rank == banker[1].Rank {
			return amt * 11
		}
		return -amt
	default:
		panic(fmt.Sprintf("local: unmapped baccarat bet kind %d", bet.Kind))
	}
}

func (e *Engine) moveWar(s *session, mv wire.Move) ([]event, error) {
	if !s.war.TieWar {
		return nil, ErrBadMove
	}
	if mv.Code == wire.ChoiceSurrender {
		return e.settle(s, -int64(s.bet)/2), nil
	}
	s.war.Player, s.war.Dealer = s.shoe.draw(), s.shoe.draw()
	s.war.TieWar = false
	evs := []event{movedEvent(s)}
	if aceHighOrder(s.war.Player) >= aceHighOrder(s.war.Dealer) {
		return append(evs, e.settle(s, int64(s.bet))...), nil
	}
	return append(evs, e.settle(s, -2*int64(s.bet))...), nil
}

func (e *Engine) moveThreeCard(s *session, mv wire.Move) ([]event, error) {
	if s.three.Showdown {
		return nil, ErrBadMove
	}
	if mv.Code == wire.ChoiceFold {
		return e.settle(s, -int64(s.bet)), nil
	}
	s.three.Showdown = true
	if name := describeHand(s.three.Player); name != "" {
		e.log.Debug("three card showdown: %s", name)
	}
	var payout int64
	switch ps, ds := eval3(s.three.Player), eval3(s.three.Dealer); {
	case !threeCardQualifies(s.three.Dealer):
		payout = int64(s.bet)
	case ps > ds:
		payout = 2 * int64(s.bet)
	case ps == ds:
		payout = 0
	default:
		payout = -2 * int64(s.bet)
	}
	evs := []event{movedEvent(s)}
	return append(evs, e.settle(s, payout)...), nil
}

func (e *Engine) moveHoldem(s *session, mv wire.Move) ([]event, error) {
	switch s.holdem.Street {
	case 0:
		switch mv.Code {
		case wire.HoldemCheck:
			s.holdem.Street = 1
			return []event{movedEvent(s)}, nil
		case 3, 4:
			s.raise = mv.Code
			return e.holdemShowdown(s), nil
		}
	case 1:
		switch mv.Code {
		case wire.HoldemCheck:
			s.holdem.Street = 2
			return []event{movedEvent(s)}, nil
		case 2:
			s.raise = 2
			return e.holdemShowdown(s), nil
		}
	case 2:
		switch mv.Code {
		case 1:
			s.raise = 1
			return e.holdemShowdown(s), nil
		case wire.HoldemFold:
			return e.settle(s, -int64(s.bet)), nil
		}
	}
	return nil, ErrBadMove
}

func (e *Engine) holdemShowdown(s *session) []event {
	s.holdem.Street = 3
	wager := int64(s.bet) * int64(1+s.raise)
	var payout int64
	switch ps, ds := eval7(s.holdem.Player, s.holdem.Community), eval7(s.holdem.Dealer, s.holdem.Community); {
	case ps > ds:
		payout = wager
	case ps == ds:
		payout = 0
	default:
		payout = -wager
	}
	evs := []event{movedEvent(s)}
	return append(evs, e.settle(s, payout)...)
}

func (e *Engine) moveCraps(s *session, mv wire.Move) ([]event, error) {
	switch mv.Action {
	case wire.ActionBet:
		if err := e.checkStake(stakeTotal(s.craps.Bets), mv.Bet.Amount); err != nil {
			return nil, err
		}
		s.craps.Bets = append(s.craps.Bets, mv.Bet)
		return []event{movedEvent(s)}, nil
	case wire.ActionClear:
		// The clear discriminant is the roll for craps.
		if len(s.craps.Bets) == 0 {
			return nil, ErrNoBets
		}
		s.craps.Dice = [2]uint8{e.die(), e.die()}
		total := int(s.craps.Dice[0]) + int(s.craps.Dice[1])
		if !s.craps.OnPoint {
			switch total {
			case 7, 11:
				return e.resolveCraps(s, total, false), nil
			case 2, 3, 12:
				return e.resolveCraps(s, total, false), nil
			default:
				s.craps.OnPoint = true
				s.craps.Point = uint8(total)
				return []event{movedEvent(s)}, nil
			}
		}
		if total == 7 || total == int(s.craps.Point) {
			return e.resolveCraps(s, total, total == 7), nil
		}
		return []event{movedEvent(s)}, nil
	default:
		return nil, ErrBadMove
	}
}

// resolveCraps settles the round once the pass line decides: a come-out
// natural or craps, the point made, or a seven out.
func (e *Engine) resolveCraps(s *session, total int, sevenOut bool) []event {
	comeOut := !s.craps.OnPoint
	passWins := (comeOut && (total == 7 || total == 11)) || (s.craps.OnPoint && !sevenOut)
	var payout int64
	for i := range s.craps.Bets {
		b := &s.craps.Bets[i]
		delta := crapsPayout(*b, s.craps, total, sevenOut, passWins)
		switch {
		case delta > 0:
			b.Status = domain.CrapsBetWon
		case delta < 0:
			b.Status = domain.CrapsBetLost
		default:
			b.Status = domain.CrapsBetPushed
		}
		payout += delta
	}
	evs := []event{movedEvent(s)}
	return append(evs, e.settle(s, payout)...)
}

func crapsPayout(b domain.Bet, t domain.CrapsTable, total int, sevenOut, passWins bool) int64 {
	amt := int64(b.Amount)
	switch b.Kind {
	case domain.CrapsPass, domain.CrapsCome, domain.CrapsPassOdds, domain.CrapsComeOdds:
		if passWins {
			return amt
		}
		return -amt
	case domain.CrapsDontPass, domain.CrapsDontCome:
		if !t.OnPoint && total == 12 {
			return 0
		}
		if passWins {
			return -amt
		}
		return amt
	case domain.CrapsField:
		switch total {
		case 2, 12:
			return 2 * amt
		case 3, 4, 9, 10, 11:
			return amt
		}
		return -amt
	case domain.CrapsPlace:
		switch {
		case t.OnPoint && !sevenOut && int(b.Target) == total:
			return amt * 7 / 6
		case sevenOut:
			return -amt
		}
		return 0
	case domain.CrapsHardway:
		switch {
		case t.OnPoint && !sevenOut && int(b.Target) == total && t.Dice[0] == t.Dice[1]:
			return amt * 7
		case sevenOut:
			return -amt
		}
		return 0
	default:
		panic(fmt.Sprintf("local: unmapped craps bet kind %d", b.Kind))
	}
}

func (e *Engine) moveRoulette(s *session, mv wire.Move) ([]event, error) {
	switch mv.Action {
	case wire.ActionBet:
		if err := e.checkStake(stakeTotal(s.roulette.Bets), mv.Bet.Amount); err != nil {
			return nil, err
		}
		s.roulette.Bets = append(s.roulette.Bets, mv.Bet)
		return []event{movedEvent(s)}, nil
	case wire.ActionClear:
		s.roulette.Bets = nil
		return []event{movedEvent(s)}, nil
	case wire.ActionTrigger:
		if len(s.roulette.Bets) == 0 {
			return nil, ErrNoBets
		}
		s.roulette.Pocket = uint8(e.rng.Intn(37))
		s.roulette.HasResult = true
		var payout int64
		for _, b := range s.roulette.Bets {
			payout += roulettePayout(b, s.roulette.Pocket)
		}
		evs := []event{movedEvent(s)}
		return append(evs, e.settle(s, payout)...), nil
	default:
		return nil, ErrBadMove
	}
}

func roulettePayout(b domain.Bet, pocket uint8) int64 {
	amt := int64(b.Amount)
	win := false
	var mult int64 = 1
	switch b.Kind {
	case domain.RouletteStraight:
		win, mult = pocket == b.Target, 35
	case domain.RouletteRed:
		win = domain.RedPocket(pocket)
	case domain.RouletteBlack:
		win = pocket != 0 && !domain.RedPocket(pocket)
	case domain.RouletteOdd:
		win = pocket != 0 && pocket%2 == 1
	case domain.RouletteEven:
		win = pocket != 0 && pocket%2 == 0
	case domain.RouletteLow:
		win = pocket >= 1 && pocket <= 18
	case domain.RouletteHigh:
		win = pocket >= 19
	case domain.RouletteDozen1:
		win, mult = pocket >= 1 && pocket <= 12, 2
	case domain.RouletteDozen2:
		win, mult = pocket >= 13 && pocket <= 24, 2
	case domain.RouletteDozen3:
		win, mult = pocket >= 25, 2
	case domain.RouletteColumn1:
		win, mult = pocket != 0 && pocket%3 == 1, 2
	case domain.RouletteColumn2:
		win, mult = pocket != 0 && pocket%3 == 2, 2
	case domain.RouletteColumn3:
		win, mult = pocket != 0 && pocket%3 == 0, 2
	default:
		panic(fmt.Sprintf("local: unmapped roulette bet kind %d", b.Kind))
	}
	if win {
		return amt * mult
	}
	return -amt
}

func (e *Engine) moveSicBo(s *session, mv wire.Move) ([]event, error) {
	switch mv.Action {
	case wire.ActionBet:
		if err := e.checkStake(stakeTotal(s.sicbo.Bets), mv.Bet.Amount); err != nil {
			return nil, err
		}
		s.sicbo.Bets = append(s.sicbo.Bets, mv.Bet)
		return []event{movedEvent(s)}, nil
	case wire.ActionClear:
		s.sicbo.Bets = nil
		return []event{movedEvent(s)}, nil
	case wire.ActionTrigger:
		if len(s.sicbo.Bets) == 0 {
			return nil, ErrNoBets
		}
		s.sicbo.Dice = [3]uint8{e.die(), e.die(), e.die()}
		s.sicbo.Rolled = true
		var payout int64
		for _, b := range s.sicbo.Bets {
			payout += sicBoPayout(b, s.sicbo.Dice)
		}
		evs := []event{movedEvent(s)}
		return append(evs, e.settle(s, payout)...), nil
	default:
		return nil, ErrBadMove
	}
}

func sicBoPayout(b domain.Bet, dice [3]uint8) int64 {
	amt := int64(b.Amount)
	total := int(dice[0]) + int(dice[1]) + int(dice[2])
	triple := dice[0] == dice[1] && dice[1] == dice[2]
	count := 0
	for _, d := range dice {
		if d == b.Target {
			count++
		}
	}
	switch b.Kind {
	case domain.SicBoSmall:
		if total >= 4 && total <= 10 && !triple {
			return amt
		}
	case domain.SicBoBig:
		if total >= 11 && total <= 17 && !triple {
			return amt
		}
	case domain.SicBoAnyTriple:
		if triple {
			return amt * 30
		}
	case domain.SicBoTriple:
		if triple && dice[0] == b.Target {
			return amt * 180
		}
	case domain.SicBoDouble:
		if count >= 2 {
			return amt * 10
		}
	case domain.SicBoTotal:
		if total == int(b.Target) {
			return amt * 6
		}
	case domain.SicBoSingle:
		if count > 0 {
			return amt * int64(count)
		}
	default:
		panic(fmt.Sprintf("local: unmapped sic bo bet kind %d", b.Kind))
	}
	return -amt
}

func stakeTotal(bets []domain.Bet) uint64 {
	var total uint64
	for _, b := range bets {
		total += b.Amount
	}
	return total
}
