package util

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// Logger fans messages out to its sinks. It travels in the context so that
// library code only logs when the caller asked for it.
type Logger struct {
	fs []logFn
	sync.Mutex
}

type logFn func(lvl Lvl, msg string)
type Lvl int

type loggerKey struct{}

const (
	DEBUG Lvl = iota
	INFO
	WARN
	ERROR
)

var lvlNames = [...]string{"DEBUG", "INFO", "WARN", "ERROR"}

func Debugf(ctx context.Context, tpl string, args ...any) { Printf(ctx, DEBUG, tpl, args...) }
func Infof(ctx context.Context, tpl string, args ...any)  { Printf(ctx, INFO, tpl, args...) }
func Warnf(ctx context.Context, tpl string, args ...any)  { Printf(ctx, WARN, tpl, args...) }
func Errorf(ctx context.Context, tpl string, args ...any) { Printf(ctx, ERROR, tpl, args...) }

// WithLogger adds the sinks to the logger of ctx, creating one if needed.
func WithLogger(ctx context.Context, fs ...logFn) context.Context {
	l, ok := GetLogger(ctx)
	if !ok {
		return context.WithValue(ctx, loggerKey{}, &Logger{fs: fs})
	}
	l.Lock()
	l.fs = append(l.fs, fs...)
	l.Unlock()
	return ctx
}

func GetLogger(ctx context.Context) (*Logger, bool) {
	l, ok := ctx.Value(loggerKey{}).(*Logger)
	return l, ok
}

func WithLvl(minLvl Lvl, f logFn) logFn {
	return func(lvl Lvl, msg string) {
		if lvl >= minLvl {
			f(lvl, msg)
		}
	}
}

// Writer returns a sink writing one line per message to w.
func Writer(w io.Writer) logFn {
	return func(lvl Lvl, msg string) {
		fmt.Fprintf(w, "%s %-5s %s\n", time.Now().Format(time.TimeOnly), lvl, msg)
	}
}

// Lines returns a sink collecting "LVL msg" lines, mostly for tests.
func Lines(lines *[]string) logFn {
	return func(lvl Lvl, msg string) { *lines = append(*lines, lvl.String()+" "+msg) }
}

func Printf(ctx context.Context, lvl Lvl, tpl string, args ...any) {
	l, ok := GetLogger(ctx)
	if !ok {
		return
	}
	msg := fmt.Sprintf(tpl, args...)
	l.Lock()
	defer l.Unlock()
	for _, f := range l.fs {
		f(lvl, msg)
	}
}

func (l Lvl) String() string {
	if l < DEBUG || l > ERROR {
		panic(fmt.Errorf("bad lvl: %d", l))
	}
	return lvlNames[l]
}

func ParseLvl(s string) (Lvl, error) {
	for i, n := range lvlNames {
		if strings.EqualFold(s, n) {
			return Lvl(i), nil
		}
	}
	return DEBUG, fmt.Errorf("bad lvl: %q", s)
}
