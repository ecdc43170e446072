package main

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/cwbudde/bioenopt/internal/fit"
	"github.com/cwbudde/bioenopt/internal/opt"
	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v3"
)

// problemFile is the YAML layout of a reweighting problem. Backend
// sections are optional and only override the defaults they name.
type problemFile struct {
	Theta       float64     `yaml:"theta"`
	Forces      []float64   `yaml:"forces"`
	Uncertainty []float64   `yaml:"uncertainty"`
	Prior       []float64   `yaml:"prior"`       // Uniform when omitted
	Observables [][]float64 `yaml:"observables"` // One row per channel

	Backend          string `yaml:"backend"`
	Parameterization string `yaml:"parameterization"` // log_weights or multipliers
	Caching          *bool  `yaml:"caching"`

	Descent *descentSection `yaml:"descent"`
	LBFGS   *lbfgsSection   `yaml:"lbfgs"`
	Mayfly  *mayflySection  `yaml:"mayfly"`
}

type descentSection struct {
	Algorithm     string   `yaml:"algorithm"`
	StepSize      *float64 `yaml:"step_size"`
	Tol           *float64 `yaml:"tol"`
	MaxIterations *int     `yaml:"max_iterations"`
}

type lbfgsSection struct {
	LineSearch    string   `yaml:"linesearch"`
	MaxIterations *int     `yaml:"max_iterations"`
	Delta         *float64 `yaml:"delta"`
	Epsilon       *float64 `yaml:"epsilon"`
	Ftol          *float64 `yaml:"ftol"`
	Gtol          *float64 `yaml:"gtol"`
	Past          *int     `yaml:"past"`
	MaxLineSearch *int     `yaml:"max_linesearch"`
	History       *int     `yaml:"history"`
}

type mayflySection struct {
	MaxIterations *int     `yaml:"max_iterations"`
	PopSize       *int     `yaml:"pop_size"`
	Bound         *float64 `yaml:"bound"`
	Seed          *int64   `yaml:"seed"`
}

func loadProblem(path string) (*problemFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read problem: %w", err)
	}
	return parseProblem(data)
}

func parseProblem(data []byte) (*problemFile, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var p problemFile
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("failed to decode problem: %w", err)
	}
	return &p, nil
}

// inputs converts the file into workspace inputs.
func (p *problemFile) inputs() (fit.Inputs, error) {
	m := len(p.Observables)
	if m == 0 {
		return fit.Inputs{}, fmt.Errorf("%w: no observables", fit.ErrShapeMismatch)
	}
	n := len(p.Observables[0])
	data := make([]float64, 0, m*n)
	for i, row := range p.Observables {
		if len(row) != n || n == 0 {
			return fit.Inputs{}, fmt.Errorf("%w: observable row %d has %d entries, expected %d", fit.ErrShapeMismatch, i, len(row), n)
		}
		data = append(data, row...)
	}

	prior := p.Prior
	if prior == nil {
		prior = make([]float64, n)
		for i := range prior {
			prior[i] = 1
		}
	}

	return fit.Inputs{
		Forces:      p.Forces,
		Uncertainty: p.Uncertainty,
		Prior:       prior,
		Observables: mat.NewDense(m, n, data),
		Theta:       p.Theta,
	}, nil
}

// options returns the evaluator options; caching defaults to on.
func (p *problemFile) options() fit.Options {
	o := fit.DefaultOptions()
	if p.Caching != nil {
		o.Caching = *p.Caching
	}
	return o
}

func (p *problemFile) multipliers() (bool, error) {
	switch strings.ToLower(strings.TrimSpace(p.Parameterization)) {
	case "", "log_weights", "weights":
		return false, nil
	case "multipliers", "forces":
		return true, nil
	}
	return false, fmt.Errorf("unknown parameterization %q", p.Parameterization)
}

// backendConfig builds the configuration record of kind from the defaults
// and the matching section of the file.
func (p *problemFile) backendConfig(kind opt.Kind) (opt.BackendConfig, error) {
	switch kind {
	case opt.KindDescent:
		cfg := opt.DefaultDescentConfig()
		if s := p.Descent; s != nil {
			if s.Algorithm != "" {
				a, err := opt.ParseAlgorithm(s.Algorithm)
				if err != nil {
					return nil, err
				}
				cfg.Algorithm = a
			}
			setIf(&cfg.StepSize, s.StepSize)
			setIf(&cfg.Tol, s.Tol)
			setIf(&cfg.MaxIterations, s.MaxIterations)
		}
		return cfg, cfg.Validate()

	case opt.KindLBFGS:
		cfg := opt.DefaultLBFGSConfig()
		if s := p.LBFGS; s != nil {
			if s.LineSearch != "" {
				ls, err := opt.ParseLineSearch(s.LineSearch)
				if err != nil {
					return nil, err
				}
				cfg.LineSearch = ls
			}
			setIf(&cfg.MaxIterations, s.MaxIterations)
			setIf(&cfg.Delta, s.Delta)
			setIf(&cfg.Epsilon, s.Epsilon)
			setIf(&cfg.Ftol, s.Ftol)
			setIf(&cfg.Gtol, s.Gtol)
			setIf(&cfg.Past, s.Past)
			setIf(&cfg.MaxLineSearch, s.MaxLineSearch)
			setIf(&cfg.History, s.History)
		}
		return cfg, cfg.Validate()

	case opt.KindMayfly:
		cfg := opt.DefaultMayflyConfig()
		if s := p.Mayfly; s != nil {
			setIf(&cfg.MaxIterations, s.MaxIterations)
			setIf(&cfg.PopSize, s.PopSize)
			setIf(&cfg.Bound, s.Bound)
			setIf(&cfg.Seed, s.Seed)
		}
		return cfg, cfg.Validate()
	}
	return nil, fmt.Errorf("%w: %s", opt.ErrUnknownBackend, kind)
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
