package opt

import (
	"fmt"
	"strings"
)

// LineSearch selects the line-search policy of the limited-memory backend.
// The numbering follows liblbfgs. gonum has no separate strong-Wolfe
// backtracking search, so BacktrackingStrongWolfe runs the same Moré–Thuente
// search, with the same Ftol and Gtol, as LineSearchMoreThuente.
type LineSearch int

const (
	LineSearchMoreThuente   LineSearch = iota // Moré–Thuente, sufficient decrease and curvature
	BacktrackingArmijo                        // Backtracking, sufficient decrease only
	BacktrackingWolfe                         // Bisection on the Wolfe conditions
	BacktrackingStrongWolfe                   // Same search as LineSearchMoreThuente
)

var lineSearchNames = [...]string{
	LineSearchMoreThuente:   "morethuente",
	BacktrackingArmijo:      "backtracking_armijo",
	BacktrackingWolfe:       "backtracking_wolfe",
	BacktrackingStrongWolfe: "backtracking_strong_wolfe",
}

// Valid reports whether l is a known policy.
func (l LineSearch) Valid() bool {
	return l >= LineSearchMoreThuente && l <= BacktrackingStrongWolfe
}

func (l LineSearch) String() string {
	if !l.Valid() {
		return fmt.Sprintf("LineSearch(%d)", int(l))
	}
	return lineSearchNames[l]
}

// LineSearches returns every policy in identifier order.
func LineSearches() []LineSearch {
	return []LineSearch{LineSearchMoreThuente, BacktrackingArmijo, BacktrackingWolfe, BacktrackingStrongWolfe}
}

// ParseLineSearch maps a name to its policy.
func ParseLineSearch(name string) (LineSearch, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	switch key {
	case "", "default", "more_thuente":
		return LineSearchMoreThuente, nil
	case "backtracking", "wolfe":
		return BacktrackingWolfe, nil
	case "armijo":
		return BacktrackingArmijo, nil
	case "strong_wolfe":
		return BacktrackingStrongWolfe, nil
	}
	for i, n := range lineSearchNames {
		if n == key {
			return LineSearch(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownLineSearch, name)
}
