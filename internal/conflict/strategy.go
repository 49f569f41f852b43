package conflict

// Strategy selects which side of a conflict block survives resolution.
type Strategy int

const (
	// StrategyTheirs keeps the incoming side of each conflict block.
	StrategyTheirs Strategy = iota
	// StrategyOurs keeps the local side of each conflict block.
	StrategyOurs
	// StrategyBoth keeps both sides and strips only the marker lines.
	StrategyBoth
	// StrategyManual refuses automatic resolution.
	StrategyManual
)

// ParseStrategy maps a manifest value to a Strategy. The empty string maps
// to StrategyTheirs, which is what upstream layering almost always wants.
func ParseStrategy(s string) Strategy {
	switch s {
	case "ours":
		return StrategyOurs
	case "both":
		return StrategyBoth
	case "manual":
		return StrategyManual
	default:
		return StrategyTheirs
	}
}

func (s Strategy) String() string {
	switch s {
	case StrategyOurs:
		return "ours"
	case StrategyTheirs:
		return "theirs"
	case StrategyBoth:
		return "both"
	case StrategyManual:
		return "manual"
	default:
		return "unknown"
	}
}
