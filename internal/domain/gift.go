package domain

// Contribution thresholds, in cents. Partial contributions are only offered
// for gifts priced above PartialThreshold, and must be at least
// MinPartialAmount.
const (
	PartialThreshold Money = 1000_00
	MinPartialAmount Money = 500_00
)

// Gift is a registry item that guests can fund, fully or partially.
type Gift struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Category    string       `json:"category,omitempty"`
	Price       Money        `json:"price"`
	ImageURL    string       `json:"image_url,omitempty"`
	Funding     FundingState `json:"funding"`
}

// Contributor records one confirmed pledge against a gift.
type Contributor struct {
	Name   string `json:"name,omitempty"`
	Amount Money  `json:"amount"`
}

// FundingState is the server-owned view of how much of a gift's price has
// already been contributed. The client reads it but never mutates it;
// mutation happens only through payment confirmation.
type FundingState struct {
	TotalContributed Money         `json:"total_contributed"`
	Contributors     []Contributor `json:"contributors,omitempty"`
}

// ContributorsSum adds up the individual contributor amounts. Used as a
// fallback when the backend omits the aggregate total.
func (f FundingState) ContributorsSum() Money {
	var sum Money
	for _, c := range f.Contributors {
		sum += c.Amount
	}
	return sum
}

// AvailableAmount is the remaining unfunded portion of the gift's price,
// clamped at zero.
func (g *Gift) AvailableAmount() Money {
	remaining := g.Price - g.Funding.TotalContributed
	if remaining < 0 {
		return 0
	}
	return remaining
}

// IsFullyFunded reports whether confirmed contributions cover the full price.
func (g *Gift) IsFullyFunded() bool {
	return g.Funding.TotalContributed >= g.Price
}

// PartialAllowed reports whether this gift offers custom partial
// contributions. Gifts at or below the threshold are all-or-nothing.
func (g *Gift) PartialAllowed() bool {
	return g.Price > PartialThreshold
}
