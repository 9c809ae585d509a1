package engine

import (
	"fmt"
	"time"
)

type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// ParseSide converts a wire token into a Side. Anything other than the
// two literal tokens is a client input error, not a domain error.
func ParseSide(s string) (Side, error) {
	switch s {
	case "BUY":
		return SideBuy, nil
	case "SELL":
		return SideSell, nil
	}
	return "", &InvalidSideError{Value: s}
}

// edge case: price stored as int64 in cents to avoid floating-point precision errors
type Order struct {
	OrderID int64
	Symbol  string
	Side    Side
	Amount  int64 // remaining tradeable quantity, reduced only by trades
	Price   int64 // price in cents, fixed for the order's lifetime

	// seq is assigned by the book on insert and breaks price ties so
	// equal-priced orders keep FIFO priority.
	seq int64
}

// OrderFill records one resting order's contribution to one trade.
type OrderFill struct {
	OrderID      int64
	FilledAmount int64
	FillPrice    int64 // the order's resting price, not a trade-wide average
}

// Trade is the immutable record of one execution. Amount and TotalPrice
// reflect what was actually filled, which may be less than requested.
type Trade struct {
	TradeID    string
	Symbol     string
	Side       Side
	Amount     int64
	TotalPrice int64
	ExecutedAt time.Time
	OrderFills []OrderFill
}

type InvalidSideError struct {
	Value string
}

func (e *InvalidSideError) Error() string {
	return fmt.Sprintf("invalid side %q: must be BUY or SELL", e.Value)
}

type DuplicateOrderError struct {
	OrderID int64
}

func (e *DuplicateOrderError) Error() string {
	return fmt.Sprintf("order with ID %d already exists", e.OrderID)
}
