package client

import "sync"

// CartItem is one selected line, held only in memory until checkout.
type CartItem struct {
	ID       uint
	Name     string
	Price    float64
	ImageURL string
	Quantity uint
}

// Cart keeps an ordered collection of lines keyed by item id. Adding an
// existing item increments its quantity; setting a quantity to 0 removes
// the line.
type Cart struct {
	mu    sync.Mutex
	order []uint
	lines map[uint]*CartItem
}

func NewCart() *Cart {
	return &Cart{lines: make(map[uint]*CartItem)}
}

func (c *Cart) Add(item CartItem) {
	if item.Quantity < 1 {
		item.Quantity = 1
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.lines[item.ID]; ok {
		existing.Quantity += item.Quantity
		return
	}
	line := item
	c.lines[item.ID] = &line
	c.order = append(c.order, item.ID)
}

func (c *Cart) SetQuantity(id, quantity uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	line, ok := c.lines[id]
	if !ok {
		return
	}
	if quantity == 0 {
		c.removeLocked(id)
		return
	}
	line.Quantity = quantity
}

func (c *Cart) Remove(id uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeLocked(id)
}

func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order = nil
	c.lines = make(map[uint]*CartItem)
}

// Lines returns the cart content in insertion order.
func (c *Cart) Lines() []CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]CartItem, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, *c.lines[id])
	}
	return out
}

func (c *Cart) Total() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	var total float64
	for _, line := range c.lines {
		total += line.Price * float64(line.Quantity)
	}
	return total
}

func (c *Cart) Count() uint {
	c.mu.Lock()
	defer c.mu.Unlock()
	var count uint
	for _, line := range c.lines {
		count += line.Quantity
	}
	return count
}

func (c *Cart) removeLocked(id uint) {
	if _, ok := c.lines[id]; !ok {
		return
	}
	delete(c.lines, id)
	for i, lineID := range c.order {
		if lineID == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}
