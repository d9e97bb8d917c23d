// Package errors attaches call stacks to errors so that failures logged
// or reported to Sentry point at the place they originated.
package errors

import (
	base "errors"
	"fmt"
	"runtime"
	"strings"

	pkgerr "github.com/pkg/errors"
)

const maxStackDepth = 100

// traced is an error with an attached call stack.
// It satisfies the stack tracer interface of github.com/pkg/errors,
// which is also what Sentry reads stack traces from.
type traced struct {
	err    error
	stack  pkgerr.StackTrace
	prefix string
}

func (e *traced) Error() string {
	if e.prefix != "" {
		return e.prefix + ": " + e.err.Error()
	}
	return e.err.Error()
}

func (e *traced) Unwrap() error {
	return e.err
}

func (e *traced) StackTrace() pkgerr.StackTrace {
	return e.stack
}

// Format supports %+v, which prints the message followed by the stack.
func (e *traced) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') {
		fmt.Fprintf(s, "%s\n%s", e.Error(), e.trace())
		return
	}
	fmt.Fprint(s, e.Error())
}

// trace renders the stack the way runtime/debug.Stack does.
func (e *traced) trace() string {
	if len(e.stack) == 0 {
		return ""
	}
	pcs := make([]uintptr, len(e.stack))
	for i, f := range e.stack {
		pcs[i] = uintptr(f)
	}
	var b strings.Builder
	frames := runtime.CallersFrames(pcs)
	for {
		f, more := frames.Next()
		fmt.Fprintf(&b, "%s:%d (0x%x)\n\t%s\n", f.File, f.Line, f.PC, f.Function)
		if !more {
			break
		}
	}
	return b.String()
}

func callers(skip int) pkgerr.StackTrace {
	pcs := make([]uintptr, maxStackDepth)
	n := runtime.Callers(skip, pcs)
	stack := make(pkgerr.StackTrace, n)
	for i := 0; i < n; i++ {
		stack[i] = pkgerr.Frame(pcs[i])
	}
	return stack
}

// Err returns an error with stack trace.
// e can be an error, a format string used with fmtParams, or any other value.
func Err(e interface{}, fmtParams ...interface{}) error {
	if e == nil {
		return nil
	}
	return wrap(1, e, fmtParams...)
}

// wrap keeps an existing trace, including one recorded by github.com/pkg/errors.
// skip counts frames above the caller of wrap.
func wrap(skip int, e interface{}, fmtParams ...interface{}) *traced {
	var err error
	switch typed := e.(type) {
	case *traced:
		return typed
	case error:
		err = typed
	case string:
		err = fmt.Errorf(typed, fmtParams...)
	default:
		err = fmt.Errorf("%+v", typed)
	}

	var st interface{ StackTrace() pkgerr.StackTrace }
	if base.As(err, &st) {
		return &traced{err: err, stack: st.StackTrace()}
	}
	return &traced{err: err, stack: callers(3 + skip)}
}

func Is(err, target error) bool             { return base.Is(err, target) }
func As(err error, target interface{}) bool { return base.As(err, target) }

// Prefix prefixes the message of the error with the given string.
func Prefix(prefix string, err interface{}) error {
	if err == nil {
		return nil
	}
	e := wrap(1, err)
	if e.prefix != "" {
		prefix = prefix + ": " + e.prefix
	}
	e.prefix = prefix
	return e
}

// Trace returns the stack trace of err, recording one at the call site if err has none.
func Trace(err error) string {
	if err == nil {
		return ""
	}
	return wrap(1, err).trace()
}

// Base returns a simple error with no stack trace attached.
func Base(format string, a ...interface{}) error {
	return fmt.Errorf(format, a...)
}

// Recover is the builtin recover() with a stack trace attached to the panic value.
// It has to be deferred directly:
//
//	err := func() (e error) {
//		defer errors.Recover(&e)
//		provision()
//		return e
//	}()
func Recover(e *error) {
	p := recover()
	if p == nil {
		return
	}
	err, ok := p.(error)
	if !ok {
		err = fmt.Errorf("%v", p)
	}
	*e = &traced{err: err, stack: callers(5), prefix: "panic"}
}
