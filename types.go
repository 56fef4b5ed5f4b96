package docskema

// UnknownPolicy controls how unknown keys are handled.
type UnknownPolicy int

const (
	UnknownStrict UnknownPolicy = iota // Reject unknown keys with an error.
	UnknownStrip                       // Drop unknown keys.
)

func (p UnknownPolicy) String() string {
	switch p {
	case UnknownStrict:
		return "strict"
	case UnknownStrip:
		return "strip"
	default:
		return "unknown"
	}
}

// ParseOpt bundles parsing options.
type ParseOpt struct {
	// FailFast stops at the first issue.
	FailFast bool
	// MaxBytes caps the input size for byte/reader sources (0 = unlimited).
	MaxBytes int64
}
