package engine

import (
	"github.com/google/btree"
)

// buyItem sorts ascending by price: the lowest-priced buy order is the
// cheapest liquidity and is consumed first.
type buyItem struct {
	order *Order
}

func (b *buyItem) Less(than btree.Item) bool {
	other := than.(*buyItem)
	if b.order.Price != other.order.Price {
		return b.order.Price < other.order.Price
	}
	return b.order.seq < other.order.seq
}

// sellItem sorts descending by price: the highest-priced sell order
// yields the most proceeds and is consumed first.
type sellItem struct {
	order *Order
}

func (s *sellItem) Less(than btree.Item) bool {
	other := than.(*sellItem)
	if s.order.Price != other.order.Price {
		return s.order.Price > other.order.Price
	}
	return s.order.seq < other.order.seq
}

// OrderBook holds all resting orders for a single symbol. Each side is a
// btree keyed by (price, seq) so iteration walks price priority with a
// stable FIFO tie-break, and an id map gives O(1) identity lookup.
//
// Amount is deliberately not part of the sort key: a trade can reduce an
// order's amount in place without re-inserting it.
//
// The book itself is unsynchronized; OrderManagement serializes all
// access per symbol.
type OrderBook struct {
	Symbol string

	buys    *btree.BTree
	sells   *btree.BTree
	orders  map[int64]*Order
	nextSeq int64
}

func NewOrderBook(symbol string) *OrderBook {
	return &OrderBook{
		Symbol: symbol,
		buys:   btree.New(32),
		sells:  btree.New(32),
		orders: make(map[int64]*Order),
	}
}

// Add inserts an order into its side's ordered collection and the id
// index. The caller guarantees the id is not already present; duplicate
// rejection is OrderManagement's job.
func (ob *OrderBook) Add(order *Order) {
	ob.nextSeq++
	order.seq = ob.nextSeq

	if order.Side == SideBuy {
		ob.buys.ReplaceOrInsert(&buyItem{order: order})
	} else {
		ob.sells.ReplaceOrInsert(&sellItem{order: order})
	}
	ob.orders[order.OrderID] = order
}

// Remove deletes an order from both the side collection and the id
// index, returning it. A missing id is not an error: nil is returned
// and the book is untouched.
func (ob *OrderBook) Remove(orderID int64) *Order {
	order, exists := ob.orders[orderID]
	if !exists {
		return nil
	}

	if order.Side == SideBuy {
		ob.buys.Delete(&buyItem{order: order})
	} else {
		ob.sells.Delete(&sellItem{order: order})
	}
	delete(ob.orders, orderID)
	return order
}

// Get returns the resting order for an id, or nil.
func (ob *OrderBook) Get(orderID int64) *Order {
	return ob.orders[orderID]
}

// OrdersFor returns a fresh slice of the side's orders in consumption
// order. The slice is safe to hold while the book is mutated; the
// orders themselves are the live records.
func (ob *OrderBook) OrdersFor(side Side) []*Order {
	tree := ob.sells
	if side == SideBuy {
		tree = ob.buys
	}

	orders := make([]*Order, 0, tree.Len())
	tree.Ascend(func(item btree.Item) bool {
		if side == SideBuy {
			orders = append(orders, item.(*buyItem).order)
		} else {
			orders = append(orders, item.(*sellItem).order)
		}
		return true
	})
	return orders
}

// Snapshot returns value copies of the side's orders in consumption
// order, safe to serialize after the symbol lock is released.
func (ob *OrderBook) Snapshot(side Side) []Order {
	live := ob.OrdersFor(side)
	orders := make([]Order, len(live))
	for i, o := range live {
		orders[i] = *o
	}
	return orders
}

// SetAmount updates an order's remaining amount in place. Amount does
// not participate in ordering, so the side collection is untouched.
// Reports whether the order was found.
func (ob *OrderBook) SetAmount(orderID, newAmount int64) bool {
	order, exists := ob.orders[orderID]
	if !exists {
		return false
	}
	order.Amount = newAmount
	return true
}

// Len reports the number of resting orders across both sides.
func (ob *OrderBook) Len() int {
	return len(ob.orders)
}

// TotalAvailable sums the remaining amount resting on one side.
func (ob *OrderBook) TotalAvailable(side Side) int64 {
	var total int64
	for _, order := range ob.OrdersFor(side) {
		total += order.Amount
	}
	return total
}
