package opt

import (
	"fmt"
	"strings"
)

// Algorithm identifies a descent-family minimizer
type Algorithm int

const (
	ConjugateFR     Algorithm = iota // Conjugate gradient, Fletcher–Reeves
	ConjugatePR                      // Conjugate gradient, Polak–Ribière
	BFGS2                            // BFGS with a Moré–Thuente line search
	BFGS                             // BFGS with a bisection line search
	SteepestDescent                  // Steepest descent with backtracking

	// AlgorithmInherit makes a DescentConfig use the process-wide selector.
	AlgorithmInherit Algorithm = -1
)

var algorithmNames = [...]string{
	ConjugateFR:     "conjugate_fr",
	ConjugatePR:     "conjugate_pr",
	BFGS2:           "bfgs2",
	BFGS:            "bfgs",
	SteepestDescent: "steepest_descent",
}

// Valid reports whether a is one of the five descent algorithms.
func (a Algorithm) Valid() bool {
	return a >= ConjugateFR && a <= SteepestDescent
}

func (a Algorithm) String() string {
	if a == AlgorithmInherit {
		return "inherit"
	}
	if !a.Valid() {
		return fmt.Sprintf("Algorithm(%d)", int(a))
	}
	return algorithmNames[a]
}

// Algorithms returns every descent algorithm in identifier order.
func Algorithms() []Algorithm {
	return []Algorithm{ConjugateFR, ConjugatePR, BFGS2, BFGS, SteepestDescent}
}

// ParseAlgorithm maps a name to its identifier. The long
// "fdfminimizer_<name>" spelling is accepted as well.
func ParseAlgorithm(name string) (Algorithm, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.TrimPrefix(key, "fdfminimizer_")
	key = strings.TrimPrefix(key, "vector_")
	for i, n := range algorithmNames {
		if n == key {
			return Algorithm(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
}
