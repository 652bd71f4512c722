package domain

// Direction represents the price movement direction
type Direction int

const (
	DirectionUp   Direction = +1
	DirectionDown Direction = -1
)

func (d Direction) String() string {
	if d == DirectionUp {
		return "up"
	}
	return "down"
}

const (
	// MaxDraw is the highlight level an instrument is reset to when its price changes.
	MaxDraw = 100
	// FadeRestart is where a fade still in progress restarts when another update lands.
	FadeRestart = MaxDraw * 4 / 5
)

// Quote is one {instrument, bid, ask} tuple from a poll response.
type Quote struct {
	Symbol Symbol
	Bid    float64
	Ask    float64
}

// Mid returns the bid/ask midpoint.
func (q Quote) Mid() float64 {
	return (q.Bid + q.Ask) / 2
}

// Instrument holds the latest known state of a single subscribed symbol
type Instrument struct {
	Symbol    Symbol
	Price     float64
	Direction Direction
	DrawState int
	Changed   bool
}

// Update records a new price. Equal prices count as down.
func (in *Instrument) Update(price float64) {
	if price > in.Price {
		in.Direction = DirectionUp
	} else {
		in.Direction = DirectionDown
	}
	in.Price = price
	in.DrawState = MaxDraw
	in.Changed = true
}

// Step advances the fade by one frame.
func (in *Instrument) Step() {
	switch {
	case in.DrawState > MaxDraw:
		in.DrawState = MaxDraw
	case in.DrawState > 0:
		in.DrawState--
	default:
		in.DrawState = 0
	}
}
