package engine

// CalculatePrice walks orders in the sequence given, consuming
// min(order.Amount, remaining) from each and accumulating
// price * consumed until the requested amount is covered or liquidity
// runs out. The caller is responsible for passing the sequence in price
// priority; the book's OrdersFor does exactly that.
//
// Returns 0 for a non-positive amount or an empty sequence. Never
// mutates its input: price quotes are free of side effects.
func CalculatePrice(orders []*Order, amount int64) int64 {
	var totalPrice int64
	remaining := amount

	for _, order := range orders {
		if remaining <= 0 {
			break
		}
		consumed := min(order.Amount, remaining)
		totalPrice += order.Price * consumed
		remaining -= consumed
	}

	return totalPrice
}
