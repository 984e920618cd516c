package instrument

// Kind is the closed set of instrument kinds. Every branch on Kind must
// switch exhaustively over this set.
type Kind uint8

const (
	_kind_beg Kind = iota
	KindEquity
	KindForex
	KindCfd
	KindCrypto
	KindIndex
	KindOption
	KindFuture
	KindFutureOption
	KindIndexOption
	_kind_end
)

func (k Kind) IsAvailable() bool {
	return k > _kind_beg && k < _kind_end
}

// IsOption reports whether the kind is an option contract on anything.
func (k Kind) IsOption() bool {
	switch k {
	case KindOption, KindFutureOption, KindIndexOption:
		return true
	default:
		return false
	}
}

func (k Kind) String() string {
	switch k {
	case KindEquity:
		return "equity"
	case KindForex:
		return "forex"
	case KindCfd:
		return "cfd"
	case KindCrypto:
		return "crypto"
	case KindIndex:
		return "index"
	case KindOption:
		return "option"
	case KindFuture:
		return "future"
	case KindFutureOption:
		return "future-option"
	case KindIndexOption:
		return "index-option"
	default:
		return "unknown"
	}
}

// Right is the side of an option contract.
type Right uint8

const (
	RightCall Right = iota
	RightPut
)

func (r Right) String() string {
	if r == RightPut {
		return "put"
	}
	return "call"
}

// SettlementKind is how an exercised option settles.
type SettlementKind uint8

const (
	SettlePhysicalDelivery SettlementKind = iota
	SettleCash
)
