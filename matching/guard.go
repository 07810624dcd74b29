package matching

import (
	"fmt"
)

// DepthLimitError is the panic value of a match exceeding Options.MaxDepth.
type DepthLimitError struct {
	Limit int
}

func (e *DepthLimitError) Error() string {
	return fmt.Sprintf("selector matching exceeded max depth %d", e.Limit)
}

// Guard runs f and returns a DepthLimitError panic as error. Other panics
// are passed on.
func Guard(ctx *Context, f func(*Context) bool) (matched bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			dle, ok := r.(*DepthLimitError)
			if !ok {
				panic(r)
			}
			matched, err = false, fmt.Errorf("match: %w", dle)
		}
	}()
	return f(ctx), nil
}
