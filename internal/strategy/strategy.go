package strategy

import (
	"fmt"
	"strings"
)

// Indicator defaults used when a condition leaves a parameter at zero
const (
	DefaultCCIPeriod           = 20
	DefaultRSIPeriod           = 14
	DefaultRSIThreshold        = 25.0
	DefaultBollingerPeriod     = 21
	DefaultBollingerMultiplier = 2.0
	DefaultHTFMultiplier       = 2.25
	DefaultHTFRatio            = 4
)

// CCI bounce levels: a breach below BounceBreachLevel within BounceLookback
// bars, followed by an upward cross of BounceEntryLevel.
const (
	BounceBreachLevel = -120.0
	BounceEntryLevel  = -100.0
	BounceLookback    = 10
)

// CCIMode selects how the CCI condition is evaluated
type CCIMode int

const (
	CCIBounce CCIMode = iota
	CCIThreshold
)

func (m CCIMode) String() string {
	switch m {
	case CCIBounce:
		return "bounce"
	case CCIThreshold:
		return "threshold"
	default:
		return "unknown"
	}
}

// ParseCCIMode parses "bounce" or "threshold" ("simple" is accepted as an alias)
func ParseCCIMode(s string) (CCIMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "bounce":
		return CCIBounce, nil
	case "threshold", "simple":
		return CCIThreshold, nil
	default:
		return CCIBounce, fmt.Errorf("unknown CCI mode %q (use bounce or threshold)", s)
	}
}

// HTFMode controls whether the higher-timeframe Bollinger band takes part in
// the Bollinger signal.
type HTFMode int

const (
	// HTFIgnore computes the higher-timeframe band but only the base band decides
	HTFIgnore HTFMode = iota
	// HTFReplace uses the higher-timeframe band instead of the base band
	HTFReplace
	// HTFConfirm requires price inside both bands
	HTFConfirm
)

func (m HTFMode) String() string {
	switch m {
	case HTFIgnore:
		return "ignore"
	case HTFReplace:
		return "replace"
	case HTFConfirm:
		return "confirm"
	default:
		return "unknown"
	}
}

// ParseHTFMode parses "ignore", "replace" or "confirm"
func ParseHTFMode(s string) (HTFMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "ignore":
		return HTFIgnore, nil
	case "replace":
		return HTFReplace, nil
	case "confirm":
		return HTFConfirm, nil
	default:
		return HTFIgnore, fmt.Errorf("unknown higher-timeframe mode %q (use ignore, replace or confirm)", s)
	}
}

// CCICondition configures the CCI entry signal
type CCICondition struct {
	Mode      CCIMode
	Threshold float64 // used by CCIThreshold only
	Period    int
}

// EffectivePeriod returns Period or the default
func (c CCICondition) EffectivePeriod() int {
	if c.Period > 0 {
		return c.Period
	}
	return DefaultCCIPeriod
}

// RSICondition fires when RSI is below Threshold (oversold entry)
type RSICondition struct {
	Threshold float64
	Period    int
}

// EffectivePeriod returns Period or the default
func (c RSICondition) EffectivePeriod() int {
	if c.Period > 0 {
		return c.Period
	}
	return DefaultRSIPeriod
}

// BollingerCondition fires when the close is strictly inside the bands
type BollingerCondition struct {
	Period                    int
	Multiplier                float64
	UseHigherTimeframe        bool
	HigherTimeframeMultiplier float64
	HigherTimeframeRatio      int
	HigherTimeframeMode       HTFMode
}

func (c BollingerCondition) EffectivePeriod() int {
	if c.Period > 0 {
		return c.Period
	}
	return DefaultBollingerPeriod
}

func (c BollingerCondition) EffectiveMultiplier() float64 {
	if c.Multiplier > 0 {
		return c.Multiplier
	}
	return DefaultBollingerMultiplier
}

func (c BollingerCondition) EffectiveHTFMultiplier() float64 {
	if c.HigherTimeframeMultiplier > 0 {
		return c.HigherTimeframeMultiplier
	}
	return DefaultHTFMultiplier
}

func (c BollingerCondition) EffectiveHTFRatio() int {
	if c.HigherTimeframeRatio > 0 {
		return c.HigherTimeframeRatio
	}
	return DefaultHTFRatio
}

// Conditions holds the optional entry conditions. A nil condition is not
// evaluated and produces no signal key.
type Conditions struct {
	CCI       *CCICondition
	RSI       *RSICondition
	Bollinger *BollingerCondition
}

// Count returns the number of configured conditions
func (c Conditions) Count() int {
	n := 0
	if c.CCI != nil {
		n++
	}
	if c.RSI != nil {
		n++
	}
	if c.Bollinger != nil {
		n++
	}
	return n
}

// ExitRules are optional; a nil rule never triggers
type ExitRules struct {
	StopLossPct   *float64
	TakeProfitPct *float64
	MaxHoldBars   *int
}

// Pct returns a pointer to a percentage, for building ExitRules literals
func Pct(v float64) *float64 {
	return &v
}

// Bars returns a pointer to a bar count, for building ExitRules literals
func Bars(n int) *int {
	return &n
}

func (e ExitRules) String() string {
	parts := make([]string, 0, 3)
	if e.StopLossPct != nil {
		parts = append(parts, fmt.Sprintf("SL %.2f%%", *e.StopLossPct))
	}
	if e.TakeProfitPct != nil {
		parts = append(parts, fmt.Sprintf("TP %.2f%%", *e.TakeProfitPct))
	}
	if e.MaxHoldBars != nil {
		parts = append(parts, fmt.Sprintf("max hold %d bars", *e.MaxHoldBars))
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ", ")
}

// Strategy is one backtest configuration: entry conditions, the number of
// them that must be active at once, and exit rules.
type Strategy struct {
	Name            string
	Group           string
	Conditions      Conditions
	Exit            ExitRules
	RequiredSignals int
}

// CCIPeriod returns the CCI period used for warm-up, configured or not
func (s Strategy) CCIPeriod() int {
	if s.Conditions.CCI != nil {
		return s.Conditions.CCI.EffectivePeriod()
	}
	return DefaultCCIPeriod
}

// RSIPeriod returns the RSI period used for warm-up, configured or not
func (s Strategy) RSIPeriod() int {
	if s.Conditions.RSI != nil {
		return s.Conditions.RSI.EffectivePeriod()
	}
	return DefaultRSIPeriod
}

// WarmUp returns the number of bars the oscillators need before the scan starts
func (s Strategy) WarmUp() int {
	return max(s.CCIPeriod(), s.RSIPeriod())
}

// Describe returns a short human readable summary of the conditions
func (s Strategy) Describe() string {
	parts := make([]string, 0, 3)
	if c := s.Conditions.CCI; c != nil {
		if c.Mode == CCIThreshold {
			parts = append(parts, fmt.Sprintf("CCI(%d)<%.0f", c.EffectivePeriod(), c.Threshold))
		} else {
			parts = append(parts, fmt.Sprintf("CCI(%d) bounce", c.EffectivePeriod()))
		}
	}
	if c := s.Conditions.RSI; c != nil {
		parts = append(parts, fmt.Sprintf("RSI(%d)<%.0f", c.EffectivePeriod(), c.Threshold))
	}
	if c := s.Conditions.Bollinger; c != nil {
		desc := fmt.Sprintf("BB(%d,%.2f)", c.EffectivePeriod(), c.EffectiveMultiplier())
		if c.UseHigherTimeframe {
			desc += fmt.Sprintf(" HTF x%d %.2f [%s]", c.EffectiveHTFRatio(), c.EffectiveHTFMultiplier(), c.HigherTimeframeMode)
		}
		parts = append(parts, desc)
	}
	if len(parts) == 0 {
		return "no conditions"
	}
	return fmt.Sprintf("%s (need %d)", strings.Join(parts, " + "), s.RequiredSignals)
}
