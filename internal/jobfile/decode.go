package jobfile

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"brookesia/internal/job"
	"brookesia/internal/mechanism"
)

// ParseError reports the first structural problem found in a job file.
type ParseError struct {
	Line int
	Msg  string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("line %d: %s: %v", e.Line, e.Msg, e.Err)
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ErrMisplacedOptimization reports a GA block that neither leads the
// operators section nor follows a reduction.
var ErrMisplacedOptimization = errors.New("GA without reduction must be the first operator")

// Option configures Decode.
type Option func(*decoder)

// WithMechanism supplies the mechanism used to fill in the default
// sub-mechanism selection of GA blocks that do not list one.
func WithMechanism(p mechanism.Provider) Option {
	return func(d *decoder) {
		d.subMechanisms = mechanism.DefaultSubMechanisms(p)
	}
}

// WithMechanismResolver looks the mechanism up by the name the job file
// gives on its mech line, the first time a GA block needs the default
// sub-mechanism selection. A nil provider keeps the H2 and CO fallback.
func WithMechanismResolver(resolve func(mech string) mechanism.Provider) Option {
	return func(d *decoder) {
		d.resolve = resolve
	}
}

// Unmarshal parses a job file held in memory.
func Unmarshal(data []byte, opts ...Option) (*job.Job, error) {
	return Decode(bytes.NewReader(data), opts...)
}

// Decode parses a job file. Fields absent from the file keep their
// defaults. On error no partial job is returned.
func Decode(r io.Reader, opts ...Option) (*job.Job, error) {
	d := &decoder{
		job:           job.NewJob(),
		subMechanisms: mechanism.DefaultSubMechanisms(nil),
	}
	for _, opt := range opts {
		opt(d)
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		d.line++
		if err := d.consume(sc.Text()); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read job file: %w", err)
	}
	if err := d.finish(); err != nil {
		return nil, err
	}
	return d.job, nil
}

type phase int

const (
	phaseMain phase = iota
	phaseCases
	phaseOperators
)

type decoder struct {
	job           *job.Job
	subMechanisms []string
	resolve       func(string) mechanism.Provider
	line          int
	phase         phase
	pendingCase   *pendingCase
	pendingOp     *pendingOp
	stagesSeen    int
}

func (d *decoder) defaultSubMechanisms() []string {
	if d.resolve != nil {
		if p := d.resolve(d.job.Main.Mechanism); p != nil {
			d.subMechanisms = mechanism.DefaultSubMechanisms(p)
		}
		d.resolve = nil
	}
	return d.subMechanisms
}

func (d *decoder) errorf(format string, args ...any) error {
	return &ParseError{Line: d.line, Msg: fmt.Sprintf(format, args...)}
}

func (d *decoder) consume(raw string) error {
	text := strings.TrimSpace(raw)
	if text == "" {
		return nil
	}
	if strings.HasPrefix(text, "#") {
		return d.marker(text)
	}
	key, value, ok := strings.Cut(text, "=")
	if !ok {
		return nil
	}
	key = strings.TrimSpace(key)
	value = strings.TrimSpace(value)

	var err error
	switch d.phase {
	case phaseMain:
		err = applyField(mainFields, d.job, key, value)
	case phaseCases:
		if d.pendingCase != nil {
			err = applyField(caseFields, d.pendingCase, key, value)
			if key == "config" {
				d.pendingCase.configLine = d.line
			}
		}
	case phaseOperators:
		if d.pendingOp != nil {
			err = applyField(opFields, d.pendingOp, key, value)
			if err == nil {
				err = applyField(gaFields, &d.pendingOp.ga, key, value)
			}
		}
	}
	if err != nil {
		return &ParseError{Line: d.line, Msg: key, Err: err}
	}
	return nil
}

// marker handles comment lines, which carry the section boundaries.
func (d *decoder) marker(text string) error {
	switch {
	case strings.Contains(text, "> Op:"):
		if d.phase != phaseOperators {
			return d.errorf("operator block before the Operators section")
		}
		if err := d.flushOp(); err != nil {
			return err
		}
		d.pendingOp = &pendingOp{line: d.line}
	case strings.Contains(text, "> Case"):
		if d.phase == phaseOperators {
			return d.errorf("case block inside the Operators section")
		}
		if err := d.flushCase(); err != nil {
			return err
		}
		d.phase = phaseCases
		d.pendingCase = &pendingCase{line: d.line}
	case strings.Contains(text, "Operators"):
		if err := d.flushCase(); err != nil {
			return err
		}
		d.phase = phaseOperators
	case strings.Contains(text, "Simulation cases"):
		if d.phase == phaseOperators {
			return d.errorf("cases section after the Operators section")
		}
		d.phase = phaseCases
	}
	return nil
}

func (d *decoder) finish() error {
	if err := d.flushCase(); err != nil {
		return err
	}
	return d.flushOp()
}

func (d *decoder) flushCase() error {
	p := d.pendingCase
	d.pendingCase = nil
	if p == nil {
		return nil
	}
	c, err := p.build()
	if err != nil {
		line := p.configLine
		if line == 0 {
			line = p.line
		}
		return &ParseError{Line: line, Msg: "case", Err: err}
	}
	d.job.Cases = append(d.job.Cases, c)
	return nil
}

func (d *decoder) flushOp() error {
	p := d.pendingOp
	d.pendingOp = nil
	if p == nil {
		return nil
	}
	fail := func(err error) error {
		return &ParseError{Line: p.line, Msg: "operator", Err: err}
	}
	if p.operator == nil {
		return fail(errors.New("missing operator field"))
	}
	optim := p.optim != nil && *p.optim

	if *p.operator == nullOperator {
		if !optim {
			return nil
		}
		if d.stagesSeen > 0 {
			return fail(ErrMisplacedOptimization)
		}
		o, err := p.ga.build(d.defaultSubMechanisms(), nil)
		if err != nil {
			return fail(err)
		}
		d.job.Pipeline.Leading = &o
		d.stagesSeen++
		return nil
	}

	method, err := job.ParseMethod(*p.operator)
	if err != nil {
		return fail(err)
	}
	r, err := p.build(method, d.job.Targets)
	if err != nil {
		return fail(err)
	}
	if optim {
		o, err := p.ga.build(d.defaultSubMechanisms(), &method)
		if err != nil {
			return fail(err)
		}
		r.Optimization = &o
	}
	d.job.Pipeline.Reductions = append(d.job.Pipeline.Reductions, r)
	d.stagesSeen++
	return nil
}
