// Package logger implements the emitter's diagnostics sink. It is modeled on
// a clang-style logger: messages are streamed as they happen instead of being
// collected into one big error value, and a "deferred" log can be swapped in
// wherever a sub-operation needs to buffer its own diagnostics.
package logger

import (
	"sort"
	"sync"
)

// Log is a bundle of closures rather than an interface so that call sites
// never have to type-assert or wrap a concrete struct: a live log and a
// deferred log satisfy the exact same shape.
type Log struct {
	AddMsg    func(Msg)
	HasErrors func() bool
	Done      func() []Msg
}

type MsgKind uint8

const (
	Error MsgKind = iota
	Warning
)

// Msg is one diagnostic. ClassName/MethodName are populated when the
// diagnostic originates from per-class or per-method generation so that a
// caller can render "ClassName.methodName: text" style output.
type Msg struct {
	Kind       MsgKind
	Text       string
	ClassName  string
	MethodName string
}

type msgsArray []Msg

func (a msgsArray) Len() int      { return len(a) }
func (a msgsArray) Swap(i, j int) { a[i], a[j] = a[j], a[i] }
func (a msgsArray) Less(i, j int) bool {
	if a[i].ClassName != a[j].ClassName {
		return a[i].ClassName < a[j].ClassName
	}
	if a[i].MethodName != a[j].MethodName {
		return a[i].MethodName < a[j].MethodName
	}
	if a[i].Kind != a[j].Kind {
		return a[i].Kind < a[j].Kind
	}
	return a[i].Text < a[j].Text
}

// NewLog constructs a live log that forwards every message to sink
// immediately and also keeps every message, so HasErrors and Done can
// answer afterwards.
func NewLog(sink func(Msg)) Log {
	var mutex sync.Mutex
	var hasErrors bool
	var all []Msg

	return Log{
		AddMsg: func(msg Msg) {
			mutex.Lock()
			if msg.Kind == Error {
				hasErrors = true
			}
			all = append(all, msg)
			mutex.Unlock()
			sink(msg)
		},
		HasErrors: func() bool {
			mutex.Lock()
			defer mutex.Unlock()
			return hasErrors
		},
		Done: func() []Msg {
			mutex.Lock()
			defer mutex.Unlock()
			out := make([]Msg, len(all))
			copy(out, all)
			sort.Stable(msgsArray(out))
			return out
		},
	}
}

// NewDeferLog buffers messages instead of forwarding them anywhere; the
// caller drains it with Done() once the scoped operation finishes.
func NewDeferLog() Log {
	var mutex sync.Mutex
	var hasErrors bool
	var msgs msgsArray

	return Log{
		AddMsg: func(msg Msg) {
			mutex.Lock()
			defer mutex.Unlock()
			if msg.Kind == Error {
				hasErrors = true
			}
			msgs = append(msgs, msg)
		},
		HasErrors: func() bool {
			mutex.Lock()
			defer mutex.Unlock()
			return hasErrors
		},
		Done: func() []Msg {
			mutex.Lock()
			defer mutex.Unlock()
			sort.Stable(msgs)
			return msgs
		},
	}
}
