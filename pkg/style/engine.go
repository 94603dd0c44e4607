package style

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	zygo "github.com/glycerine/zygomys/zygo"
)

// EvalError is a non-fatal problem in style source: a parse error, an
// unknown symbol, or a bad argument to a style form.
type EvalError struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Engine evaluates style source. It is safe for concurrent use; every
// evaluation runs in a fresh sandbox. Sandbox setup is serialized since
// zygomys keeps global state that is not safe for concurrent creation;
// running the program is not, so a runaway program never blocks later
// evaluations.
type Engine struct {
	mu         sync.Mutex
	generation uint64
	timeout    time.Duration

	setup sync.Mutex
}

// NewEngine returns an Engine.
func NewEngine() *Engine {
	return &Engine{timeout: EvalTimeout}
}

// Evaluate runs source and returns the resulting style. Forms not present
// in source keep their defaults, so empty source yields Default().
//
//   - success: style, nil, nil
//   - bad source: nil, eval errors, nil
//   - timeout, panic or a newer evaluation: nil, nil, error
func (e *Engine) Evaluate(source string) (*Style, []EvalError, error) {
	gen := e.next()

	ch := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- outcome{err: fmt.Errorf("style: panic during evaluation: %v", r)}
			}
		}()
		s, evalErrs := e.evaluate(source)
		ch <- outcome{style: s, errors: evalErrs}
	}()

	return e.wait(ch, gen)
}

// evaluate runs source in a fresh sandbox with the style forms installed.
func (e *Engine) evaluate(source string) (*Style, []EvalError) {
	s := Default()
	if strings.TrimSpace(source) == "" {
		return s, nil
	}

	env, err := e.load(source, s)
	if env != nil {
		defer env.Stop()
	}
	if err != nil {
		return nil, parseZygomysError(err)
	}
	if _, err := env.Run(); err != nil {
		return nil, parseZygomysError(err)
	}
	if err := s.Validate(); err != nil {
		return nil, []EvalError{{Message: err.Error()}}
	}
	return s, nil
}

// load builds a sandbox writing into s and parses source into it. Parsing
// always terminates, so holding the setup lock here is bounded.
func (e *Engine) load(source string, s *Style) (*zygo.Zlisp, error) {
	e.setup.Lock()
	defer e.setup.Unlock()

	// The sandbox has no filesystem or syscall access.
	env := zygo.NewZlispSandbox()
	install(env, s)
	if err := env.LoadString(preprocess(source)); err != nil {
		return env, err
	}
	return env, nil
}

// linePattern matches "Error on line N: ..." as produced by zygomys.
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches "line N: ...".
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError turns a zygomys error into eval errors, keeping the
// line number when the message carries one.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()
	for _, re := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := re.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
		}
	}
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
