package engine

import (
	"testing"
)

func TestExecuteTradeFillsInPricePriority(t *testing.T) {
	book := NewOrderBook("JPM")
	book.Add(&Order{OrderID: 1, Symbol: "JPM", Side: SideBuy, Amount: 20, Price: 20})
	book.Add(&Order{OrderID: 4, Symbol: "JPM", Side: SideBuy, Amount: 10, Price: 21})

	trade := ExecuteTrade(book, SideBuy, 22)

	if trade.Amount != 22 {
		t.Errorf("Expected filled amount 22, got: %d", trade.Amount)
	}
	if trade.TotalPrice != 442 {
		t.Errorf("Expected total price 442, got: %d", trade.TotalPrice)
	}
	if len(trade.OrderFills) != 2 {
		t.Fatalf("Expected 2 fills, got: %d", len(trade.OrderFills))
	}

	first := trade.OrderFills[0]
	if first.OrderID != 1 || first.FilledAmount != 20 || first.FillPrice != 20 {
		t.Errorf("Unexpected first fill: %+v", first)
	}
	second := trade.OrderFills[1]
	if second.OrderID != 4 || second.FilledAmount != 2 || second.FillPrice != 21 {
		t.Errorf("Unexpected second fill: %+v", second)
	}

	if trade.TradeID == "" {
		t.Error("Trade should carry a generated id")
	}
	if trade.ExecutedAt.IsZero() {
		t.Error("Trade should carry an execution timestamp")
	}
}

// An order drained to zero leaves the book in the same operation; a
// partially consumed order stays with its amount reduced.
func TestExecuteTradeConsumedOrdersVanish(t *testing.T) {
	book := NewOrderBook("JPM")
	book.Add(&Order{OrderID: 1, Symbol: "JPM", Side: SideBuy, Amount: 20, Price: 20})
	book.Add(&Order{OrderID: 4, Symbol: "JPM", Side: SideBuy, Amount: 10, Price: 21})

	ExecuteTrade(book, SideBuy, 22)

	if book.Get(1) != nil {
		t.Error("Fully consumed order 1 should be gone from the book")
	}
	remaining := book.Get(4)
	if remaining == nil {
		t.Fatal("Partially consumed order 4 should still rest")
	}
	if remaining.Amount != 8 {
		t.Errorf("Expected order 4 to have 8 remaining, got: %d", remaining.Amount)
	}
	if len(book.OrdersFor(SideBuy)) != 1 {
		t.Errorf("Expected 1 resting buy order, got: %d", len(book.OrdersFor(SideBuy)))
	}
}

// Fill conservation: the fills sum to the trade amount, which never
// exceeds the requested amount.
func TestExecuteTradeFillConservation(t *testing.T) {
	book := NewOrderBook("JPM")
	book.Add(&Order{OrderID: 1, Symbol: "JPM", Side: SideSell, Amount: 15, Price: 30})
	book.Add(&Order{OrderID: 2, Symbol: "JPM", Side: SideSell, Amount: 5, Price: 29})
	book.Add(&Order{OrderID: 3, Symbol: "JPM", Side: SideSell, Amount: 40, Price: 31})

	requested := int64(25)
	trade := ExecuteTrade(book, SideSell, requested)

	var sum int64
	for _, fill := range trade.OrderFills {
		if fill.FilledAmount <= 0 {
			t.Errorf("Fill amounts must be positive, got: %d", fill.FilledAmount)
		}
		sum += fill.FilledAmount
	}
	if sum != trade.Amount {
		t.Errorf("Fills sum %d does not match trade amount %d", sum, trade.Amount)
	}
	if trade.Amount > requested {
		t.Errorf("Trade amount %d exceeds requested %d", trade.Amount, requested)
	}
}

// Sell-side consumption starts at the highest price.
func TestExecuteTradeSellSidePriority(t *testing.T) {
	book := NewOrderBook("JPM")
	book.Add(&Order{OrderID: 1, Symbol: "JPM", Side: SideSell, Amount: 10, Price: 29})
	book.Add(&Order{OrderID: 2, Symbol: "JPM", Side: SideSell, Amount: 10, Price: 31})

	trade := ExecuteTrade(book, SideSell, 10)

	if len(trade.OrderFills) != 1 {
		t.Fatalf("Expected 1 fill, got: %d", len(trade.OrderFills))
	}
	if trade.OrderFills[0].OrderID != 2 || trade.OrderFills[0].FillPrice != 31 {
		t.Errorf("Expected highest-priced sell order first, got: %+v", trade.OrderFills[0])
	}
}

func TestExecuteTradeInsufficientLiquidity(t *testing.T) {
	book := NewOrderBook("JPM")
	book.Add(&Order{OrderID: 1, Symbol: "JPM", Side: SideBuy, Amount: 10, Price: 20})

	trade := ExecuteTrade(book, SideBuy, 100)

	if trade.Amount != 10 {
		t.Errorf("Expected partial fill of 10, got: %d", trade.Amount)
	}
	if trade.TotalPrice != 200 {
		t.Errorf("Expected total price 200, got: %d", trade.TotalPrice)
	}
	if book.Len() != 0 {
		t.Errorf("Book should be drained, got length: %d", book.Len())
	}
}

func TestExecuteTradeZeroAmount(t *testing.T) {
	book := NewOrderBook("JPM")
	book.Add(&Order{OrderID: 1, Symbol: "JPM", Side: SideBuy, Amount: 10, Price: 20})

	trade := ExecuteTrade(book, SideBuy, 0)

	if trade.Amount != 0 || trade.TotalPrice != 0 {
		t.Errorf("Expected zero trade, got amount %d price %d", trade.Amount, trade.TotalPrice)
	}
	if len(trade.OrderFills) != 0 {
		t.Errorf("Expected no fills, got: %d", len(trade.OrderFills))
	}
	if book.Get(1).Amount != 10 {
		t.Error("Zero-amount trade must not touch the book")
	}
}

func TestExecuteTradeEmptyBook(t *testing.T) {
	book := NewOrderBook("JPM")

	trade := ExecuteTrade(book, SideSell, 50)

	if trade.Amount != 0 || trade.TotalPrice != 0 || len(trade.OrderFills) != 0 {
		t.Errorf("Expected zero trade on empty book, got: %+v", trade)
	}
	if trade.Symbol != "JPM" {
		t.Errorf("Trade should carry the book's symbol, got: %q", trade.Symbol)
	}
}
