package snapshot

// State is a stage of the snapshot chain
type State int

const (
	Idle State = iota
	Checking
	Staging
	Committing
	HashResolving
	Succeeded
	Failed
)

// String implements fmt.Stringer
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Checking:
		return "checking"
	case Staging:
		return "staging"
	case Committing:
		return "committing"
	case HashResolving:
		return "hash-resolving"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition follows s
func (s State) Terminal() bool {
	return s == Succeeded || s == Failed
}
