package engine

import (
	"time"

	"github.com/google/uuid"
)

// ExecuteTrade consumes resting liquidity on one side of a book in price
// priority and returns the resulting Trade. It walks the same sequence
// CalculatePrice walks, so the fills always match the quoted price for
// the filled quantity.
//
// Orders fully consumed are removed from the book in the same pass;
// partially consumed orders get their amount reduced in place.
// Insufficient liquidity is not an error: the Trade simply carries the
// amount that was actually filled. A non-positive amount or an empty
// side yields a zero Trade and an untouched book.
//
// The caller holds the symbol lock for the whole call, so the snapshot,
// the fill computation and the mutations are one atomic step.
func ExecuteTrade(book *OrderBook, side Side, amount int64) *Trade {
	orders := book.OrdersFor(side)

	fills := make([]OrderFill, 0, len(orders))
	remaining := amount
	var actualFilled int64
	var actualPrice int64

	for _, order := range orders {
		if remaining <= 0 {
			break
		}

		consumed := min(order.Amount, remaining)
		fills = append(fills, OrderFill{
			OrderID:      order.OrderID,
			FilledAmount: consumed,
			FillPrice:    order.Price,
		})

		actualFilled += consumed
		actualPrice += order.Price * consumed

		// edge case: an order drained to exactly zero leaves the book
		// in the same step, never resting at zero amount
		if consumed == order.Amount {
			book.Remove(order.OrderID)
		} else {
			book.SetAmount(order.OrderID, order.Amount-consumed)
		}

		remaining -= consumed
	}

	return &Trade{
		TradeID:    uuid.New().String(),
		Symbol:     book.Symbol,
		Side:       side,
		Amount:     actualFilled,
		TotalPrice: actualPrice,
		ExecutedAt: time.Now().UTC(),
		OrderFills: fills,
	}
}
