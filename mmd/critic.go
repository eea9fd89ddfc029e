package mmd

// CriticMode selects how CriticMarkup constructs are rendered (§4.7).
type CriticMode int

const (
	CriticShow CriticMode = iota
	CriticAccept
	CriticReject
)

// criticModeFrom derives the mode from the extension bitset; ACCEPT and
// REJECT are mutually exclusive, ACCEPT winning if both are set (a
// malformed CLI invocation rather than a meaningful combination).
func criticModeFrom(ext Extensions) CriticMode {
	switch {
	case ext.Has(ExtCriticAccept):
		return CriticAccept
	case ext.Has(ExtCriticReject):
		return CriticReject
	default:
		return CriticShow
	}
}

// criticAddVisible reports whether an addition's content should appear in
// the output under mode.
func criticAddVisible(mode CriticMode) bool { return mode != CriticReject }

// criticDelVisible reports whether a deletion's content should appear in
// the output under mode.
func criticDelVisible(mode CriticMode) bool { return mode != CriticAccept }

// criticSubUsesNew reports which half of a substitution ({~~old~>new~~})
// should appear: true selects the "new" (post-divider) half.
func criticSubUsesNew(mode CriticMode) bool { return mode != CriticReject }
