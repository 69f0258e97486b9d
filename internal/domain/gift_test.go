package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGift_AvailableAmount(t *testing.T) {
	tests := []struct {
		name        string
		price       Money
		contributed Money
		want        Money
	}{
		{name: "untouched gift", price: 1500_00, contributed: 0, want: 1500_00},
		{name: "partially funded", price: 1500_00, contributed: 600_00, want: 900_00},
		{name: "fully funded", price: 1500_00, contributed: 1500_00, want: 0},
		{name: "over funded clamps to zero", price: 1500_00, contributed: 1600_00, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := &Gift{Price: tt.price, Funding: FundingState{TotalContributed: tt.contributed}}
			assert.Equal(t, tt.want, g.AvailableAmount())
		})
	}
}

func TestGift_IsFullyFunded(t *testing.T) {
	g := &Gift{Price: 800_00, Funding: FundingState{TotalContributed: 799_99}}
	assert.False(t, g.IsFullyFunded())

	g.Funding.TotalContributed = 800_00
	assert.True(t, g.IsFullyFunded())
}

func TestGift_PartialAllowed(t *testing.T) {
	assert.True(t, (&Gift{Price: 1500_00}).PartialAllowed())
	assert.False(t, (&Gift{Price: 1000_00}).PartialAllowed())
	assert.False(t, (&Gift{Price: 800_00}).PartialAllowed())
}

func TestFundingState_ContributorsSum(t *testing.T) {
	f := FundingState{
		Contributors: []Contributor{
			{Name: "ana", Amount: 600_00},
			{Name: "luis", Amount: 500_00},
		},
	}
	assert.Equal(t, Money(1100_00), f.ContributorsSum())
	assert.Equal(t, Money(0), FundingState{}.ContributorsSum())
}
