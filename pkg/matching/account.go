package matching

import "fmt"

// Broker holds a trading firm's available credit. Buy orders reserve their
// full value while resting (in either book); trades and deletions release or
// transfer it. All mutation happens under the owning security's serialization.
type Broker struct {
	ID     string
	Name   string
	Credit int64
}

func NewBroker(id, name string, credit int64) *Broker {
	return &Broker{ID: id, Name: name, Credit: credit}
}

func (b *Broker) HasEnoughCredit(amount int64) bool {
	return b.Credit >= amount
}

func (b *Broker) IncreaseCreditBy(amount int64) {
	if amount < 0 {
		panic(fmt.Sprintf("broker %s: negative credit increase %d", b.ID, amount))
	}
	b.Credit += amount
}

func (b *Broker) DecreaseCreditBy(amount int64) {
	if amount < 0 {
		panic(fmt.Sprintf("broker %s: negative credit decrease %d", b.ID, amount))
	}
	b.Credit -= amount
}

// Shareholder holds per-instrument positions. Positions are never reserved;
// sell sufficiency is checked against the aggregate of open sell orders.
type Shareholder struct {
	ID        string
	Name      string
	positions map[string]int64
}

func NewShareholder(id, name string) *Shareholder {
	return &Shareholder{ID: id, Name: name, positions: make(map[string]int64)}
}

func (s *Shareholder) PositionOn(isin string) int64 {
	return s.positions[isin]
}

func (s *Shareholder) SetPosition(isin string, quantity int64) {
	s.positions[isin] = quantity
}

func (s *Shareholder) HasEnoughPositionsOn(isin string, amount int64) bool {
	return s.positions[isin] >= amount
}

func (s *Shareholder) IncPosition(isin string, amount int64) {
	s.positions[isin] += amount
}

func (s *Shareholder) DecPosition(isin string, amount int64) {
	if s.positions[isin] < amount {
		panic(fmt.Sprintf("shareholder %s: position on %s would go negative", s.ID, isin))
	}
	s.positions[isin] -= amount
}
