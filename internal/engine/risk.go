package engine

import (
	"fmt"

	"futures-ai-trader/internal/types"
)

// RiskGate evaluates a proposed signal against account state and configured
// limits. Pure decision function: no side effects, no I/O.
type RiskGate struct {
	maxPosition  int
	marginPerLot float64
	autoTrade    bool
}

// Verdict is the outcome of a risk check. Reason names the failed check.
type Verdict struct {
	Passed bool
	Reason string
}

func NewRiskGate(maxPosition int, marginPerLot float64, autoTrade bool) *RiskGate {
	return &RiskGate{
		maxPosition:  maxPosition,
		marginPerLot: marginPerLot,
		autoTrade:    autoTrade,
	}
}

// Check runs the three gates in fixed order, stopping at the first failure:
// position-size cap, margin coverage, then the auto-trade kill-switch. The
// funds check is skipped when no account snapshot is available. The
// kill-switch applies even when the first two checks pass.
func (g *RiskGate) Check(signal types.TradeSignal, account *types.AccountInfo) Verdict {
	if signal.Volume > g.maxPosition {
		return Verdict{Reason: fmt.Sprintf("volume %d exceeds max position %d", signal.Volume, g.maxPosition)}
	}

	if account != nil {
		required := float64(signal.Volume) * g.marginPerLot
		if account.Available < required {
			return Verdict{Reason: fmt.Sprintf("insufficient funds: available %.2f, required %.2f", account.Available, required)}
		}
	}

	if !g.autoTrade {
		return Verdict{Reason: "auto trading disabled (set risk.auto_trade: true)"}
	}

	return Verdict{Passed: true}
}
