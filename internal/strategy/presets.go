package strategy

// Strategy groups used by the default comparison suite
const (
	GroupCombination = "combination"
	GroupCCI         = "cci"
	GroupRSI         = "rsi"
	GroupBollinger   = "bollinger"
	GroupCustom      = "custom"
)

// DefaultExitRules: 3% stop loss, 5% take profit, 48 bars max hold
func DefaultExitRules() ExitRules {
	return ExitRules{
		StopLossPct:   Pct(3),
		TakeProfitPct: Pct(5),
		MaxHoldBars:   Bars(48),
	}
}

// DefaultConditions returns the three-indicator setup: CCI bounce, RSI < 25,
// BB(21, 2.0) with a 4x higher-timeframe band at 2.25.
func DefaultConditions() Conditions {
	return Conditions{
		CCI: &CCICondition{Mode: CCIBounce, Period: DefaultCCIPeriod},
		RSI: &RSICondition{Threshold: DefaultRSIThreshold, Period: DefaultRSIPeriod},
		Bollinger: &BollingerCondition{
			Period:                    DefaultBollingerPeriod,
			Multiplier:                DefaultBollingerMultiplier,
			UseHigherTimeframe:        true,
			HigherTimeframeMultiplier: DefaultHTFMultiplier,
			HigherTimeframeRatio:      DefaultHTFRatio,
		},
	}
}

// Names of the two full-combination runs compared by the recommendation
const (
	NameAllSignals = "All 3 Signals"
	NameTwoOfThree = "2 of 3 Signals"
)

// DefaultSuite returns the comparison battery: the full combination with all
// three and two of three signals required, each indicator alone, and every pair.
// htfMode is applied to every variant that uses the higher-timeframe band.
func DefaultSuite(htfMode HTFMode) []Strategy {
	exit := DefaultExitRules()
	base := DefaultConditions()
	base.Bollinger.HigherTimeframeMode = htfMode

	cciBounce := func() *CCICondition {
		return &CCICondition{Mode: CCIBounce, Period: DefaultCCIPeriod}
	}
	rsi := func(threshold float64) *RSICondition {
		return &RSICondition{Threshold: threshold, Period: DefaultRSIPeriod}
	}
	bb := func(period int, mult float64) *BollingerCondition {
		return &BollingerCondition{Period: period, Multiplier: mult}
	}
	twoOfThree := base
	twoOfThree.Bollinger = cloneBollinger(base.Bollinger)

	return []Strategy{
		{Name: NameAllSignals, Group: GroupCombination, Conditions: base, Exit: exit, RequiredSignals: 3},
		{Name: NameTwoOfThree, Group: GroupCombination, Conditions: twoOfThree, Exit: exit, RequiredSignals: 2},

		{Name: "CCI Bounce", Group: GroupCCI, Conditions: Conditions{CCI: cciBounce()}, Exit: exit, RequiredSignals: 1},
		{Name: "CCI < -100", Group: GroupCCI, Conditions: Conditions{CCI: &CCICondition{Mode: CCIThreshold, Threshold: -100, Period: DefaultCCIPeriod}}, Exit: exit, RequiredSignals: 1},

		{Name: "RSI < 20", Group: GroupRSI, Conditions: Conditions{RSI: rsi(20)}, Exit: exit, RequiredSignals: 1},
		{Name: "RSI < 25", Group: GroupRSI, Conditions: Conditions{RSI: rsi(25)}, Exit: exit, RequiredSignals: 1},
		{Name: "RSI < 30", Group: GroupRSI, Conditions: Conditions{RSI: rsi(30)}, Exit: exit, RequiredSignals: 1},

		{Name: "BB(20, 2.0)", Group: GroupBollinger, Conditions: Conditions{Bollinger: bb(20, 2.0)}, Exit: exit, RequiredSignals: 1},
		{Name: "BB(21, 2.0)", Group: GroupBollinger, Conditions: Conditions{Bollinger: bb(21, 2.0)}, Exit: exit, RequiredSignals: 1},
		{Name: "BB(21, 2.25)", Group: GroupBollinger, Conditions: Conditions{Bollinger: bb(21, 2.25)}, Exit: exit, RequiredSignals: 1},

		{Name: "CCI + RSI", Group: GroupCombination, Conditions: Conditions{CCI: cciBounce(), RSI: rsi(DefaultRSIThreshold)}, Exit: exit, RequiredSignals: 2},
		{Name: "CCI + BB", Group: GroupCombination, Conditions: Conditions{CCI: cciBounce(), Bollinger: bb(21, 2.0)}, Exit: exit, RequiredSignals: 2},
		{Name: "RSI + BB", Group: GroupCombination, Conditions: Conditions{RSI: rsi(DefaultRSIThreshold), Bollinger: bb(21, 2.0)}, Exit: exit, RequiredSignals: 2},
	}
}

func cloneBollinger(c *BollingerCondition) *BollingerCondition {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}
