package domain

import "time"

// Cart holds the pledges a guest intends to pay for. One cart per guest
// session, persisted on every mutation.
type Cart struct {
	GuestID   string       `json:"guest_id"`
	Items     []PledgeItem `json:"items"`
	Currency  string       `json:"currency"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// PledgeItem is a single pledge line in the cart. Quantity is semantically 1
// for gift funding (a pledge is indivisible); it does not multiply the
// amount and exists for a generic reusable-quantity code path.
type PledgeItem struct {
	GiftID   string    `json:"gift_id"`
	GiftName string    `json:"gift_name"`
	Amount   Money     `json:"amount"`
	Quantity int       `json:"quantity"`
	ImageURL string    `json:"image_url,omitempty"`
	AddedAt  time.Time `json:"added_at"`
}

// NewCart creates an empty cart for the given guest session.
func NewCart(guestID string) *Cart {
	now := time.Now().UTC()
	return &Cart{
		GuestID:   guestID,
		Items:     []PledgeItem{},
		Currency:  Currency,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// FindItemIndex returns the index of the pledge for the given gift, or -1.
func (c *Cart) FindItemIndex(giftID string) int {
	for i := range c.Items {
		if c.Items[i].GiftID == giftID {
			return i
		}
	}
	return -1
}

// HasGift reports whether the cart already holds a pledge for the gift.
func (c *Cart) HasGift(giftID string) bool {
	return c.FindItemIndex(giftID) != -1
}

// Add appends a pledge for a gift not yet in the cart. It returns false
// without mutating the cart when a pledge for the same gift already exists;
// the guest must remove it first to change the amount.
func (c *Cart) Add(item PledgeItem) bool {
	if c.HasGift(item.GiftID) {
		return false
	}
	if item.Quantity <= 0 {
		item.Quantity = 1
	}
	if item.AddedAt.IsZero() {
		item.AddedAt = time.Now().UTC()
	}
	c.Items = append(c.Items, item)
	c.UpdatedAt = time.Now().UTC()
	return true
}

// Remove deletes the pledge for the gift if present. Removing an absent gift
// is a no-op; the return value reports whether anything changed.
func (c *Cart) Remove(giftID string) bool {
	idx := c.FindItemIndex(giftID)
	if idx == -1 {
		return false
	}
	c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
	c.UpdatedAt = time.Now().UTC()
	return true
}

// SetQuantity replaces the quantity of the matching pledge. A quantity of
// zero or less removes the pledge. Returns false when nothing changed.
func (c *Cart) SetQuantity(giftID string, quantity int) bool {
	if quantity <= 0 {
		return c.Remove(giftID)
	}
	idx := c.FindItemIndex(giftID)
	if idx == -1 {
		return false
	}
	c.Items[idx].Quantity = quantity
	c.UpdatedAt = time.Now().UTC()
	return true
}

// Clear removes all pledges from the cart.
func (c *Cart) Clear() {
	c.Items = []PledgeItem{}
	c.UpdatedAt = time.Now().UTC()
}

// IsEmpty reports whether the cart holds no pledges.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// TotalAmount is the sum of amount times quantity across all pledges,
// recomputed fresh on every call.
func (c *Cart) TotalAmount() Money {
	var total Money
	for _, item := range c.Items {
		total += item.Amount * Money(item.Quantity)
	}
	return total
}

// ItemCount is the sum of quantities across all pledges.
func (c *Cart) ItemCount() int {
	var count int
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// ItemAmount returns the pledge amount for one gift, or zero if absent.
func (c *Cart) ItemAmount(giftID string) Money {
	idx := c.FindItemIndex(giftID)
	if idx == -1 {
		return 0
	}
	return c.Items[idx].Amount
}

// GiftIDs returns the gift IDs of all pledges in insertion order.
func (c *Cart) GiftIDs() []string {
	ids := make([]string, len(c.Items))
	for i, item := range c.Items {
		ids[i] = item.GiftID
	}
	return ids
}

// Amounts returns the pledge amounts in the same order as GiftIDs.
func (c *Cart) Amounts() []Money {
	amounts := make([]Money, len(c.Items))
	for i, item := range c.Items {
		amounts[i] = item.Amount
	}
	return amounts
}
