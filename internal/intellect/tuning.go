package intellect

// Tuning holds the thresholds the policies decide with.
type Tuning struct {
	ReserveMultiplier    int // Desired headcount per unit of transport capacity
	RunwayTurns          int // Turns of upkeep the bank balance should cover
	MoneyReserve         int // Money never spent on hiring or transport
	SurvivalFloor        int // Minimum survival chance for an agent to be sent
	SpareAgents          int // Agents sent beyond the required survivors
	LowMoney             int // Below this every idle agent earns money
	HighMoney            int // Above this idle agents train instead of earning
	IntelInvestThreshold int // Intel banked before it is invested
}

// DefaultTuning returns the thresholds of the reference policy.
func DefaultTuning() Tuning {
	return Tuning{
		ReserveMultiplier:    2,
		RunwayTurns:          20,
		MoneyReserve:         100,
		SurvivalFloor:        40,
		SpareAgents:          1,
		LowMoney:             200,
		HighMoney:            600,
		IntelInvestThreshold: 20,
	}
}
