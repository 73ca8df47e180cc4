package strategy

import (
	"fmt"

	"github.com/shopspring/decimal"

	"strategylab/pkg/errors"
	"strategylab/types"
)

// dca buys on day 0 and every frequencyDays-th trading day after it,
// counted by trading-day index. The day-0 tranche is the initial capital;
// every later due day injects contributionAmount of fresh cash first, so
// totalContributions grows by exactly that amount per contribution.
type dca struct {
	contributionAmount decimal.Decimal
	frequencyDays      int
}

func newDCA(params Params) (*dca, error) {
	amount := params.Decimal("contributionAmount")
	if !amount.IsPositive() {
		return nil, errors.Newf(errors.ErrCodeValidation,
			"parameter contributionAmount must be positive, got %s", amount)
	}

	freq := params.Int("frequencyDays")
	if freq < 1 {
		return nil, errors.Newf(errors.ErrCodeValidation,
			"parameter frequencyDays must be at least 1, got %d", freq)
	}

	return &dca{contributionAmount: amount, frequencyDays: freq}, nil
}

func (s *dca) ID() string {
	return IDDCA
}

func (s *dca) Contribution(dayIndex int) decimal.Decimal {
	if dayIndex > 0 && dayIndex%s.frequencyDays == 0 {
		return s.contributionAmount
	}

	return decimal.Zero
}

func (s *dca) Decide(state types.PortfolioView, history []types.PricePoint, today types.PricePoint) Decision {
	dayIndex := len(history) - 1
	if dayIndex%s.frequencyDays != 0 {
		return hold()
	}

	qty := MaxAffordable(state.Cash, today.Close)
	if !qty.IsPositive() {
		return hold()
	}

	reason := fmt.Sprintf("DCA contribution of %s", s.contributionAmount)
	if dayIndex == 0 {
		reason = fmt.Sprintf("initial investment of %s", state.Cash)
	}

	return Decision{Action: ActionBuy, Quantity: qty, Reason: reason}
}
