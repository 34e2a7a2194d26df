package local

import (
	"math/rand"

	"felt/internal/domain"
)

// shoe is a single shuffled deck that reshuffles itself when it runs dry.
type shoe struct {
	rng   *rand.Rand
	cards []domain.Card
}

func newShoe(rng *rand.Rand) *shoe {
	s := &shoe{rng: rng}
	s.shuffle()
	return s
}

func (s *shoe) shuffle() {
	s.cards = s.cards[:0]
	for v := 0; v < 52; v++ {
		c, _ := domain.DecodeCard(byte(v))
		s.cards = append(s.cards, c)
	}
	s.rng.Shuffle(len(s.cards), func(i, j int) {
		s.cards[i], s.cards[j] = s.cards[j], s.cards[i]
	})
}

func (s *shoe) draw() domain.Card {
	if len(s.cards) == 0 {
		s.shuffle()
	}
	c := s.cards[len(s.cards)-1]
	s.cards = s.cards[:len(s.cards)-1]
	return c
}

func (s *shoe) drawN(n int) []domain.Card {
	cards := make([]domain.Card, n)
	for i := range cards {
		cards[i] = s.draw()
	}
	return cards
}
