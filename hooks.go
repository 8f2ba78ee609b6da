package dynjson

// OnWriteFunc is called after a value is written successfully. The tag is
// empty when via is ViaNull.
type OnWriteFunc func(tag string, via Resolution)

// OnFallbackFunc is called just before the fallback runs.
type OnFallbackFunc func(v any)

// OnUnhandledFunc is called when the fallback fails, including the default
// fallback's *UnhandledTypeError.
type OnUnhandledFunc func(v any, err error)

// hooks holds all configured hook functions.
type hooks struct {
	onWrite     []OnWriteFunc
	onFallback  []OnFallbackFunc
	onUnhandled []OnUnhandledFunc
}

// WithOnWrite adds a hook called after every successful write.
// Multiple hooks are called in order.
//
// Example:
//
//	dynjson.WithOnWrite(func(tag string, via dynjson.Resolution) {
//	    counts[via.String()+":"+tag]++
//	})
func WithOnWrite(fn OnWriteFunc) Option {
	return func(e *Engine) {
		e.hooks.onWrite = append(e.hooks.onWrite, fn)
	}
}

// WithOnFallback adds a hook called before the fallback is invoked.
// Multiple hooks are called in order.
func WithOnFallback(fn OnFallbackFunc) Option {
	return func(e *Engine) {
		e.hooks.onFallback = append(e.hooks.onFallback, fn)
	}
}

// WithOnUnhandled adds a hook called when the fallback fails. The error is
// still returned to the caller.
// Multiple hooks are called in order.
//
// Example:
//
//	dynjson.WithOnUnhandled(func(v any, err error) {
//	    logger.Error("cannot serialize column", "type", fmt.Sprintf("%T", v), "error", err)
//	})
func WithOnUnhandled(fn OnUnhandledFunc) Option {
	return func(e *Engine) {
		e.hooks.onUnhandled = append(e.hooks.onUnhandled, fn)
	}
}

func (e *Engine) callOnWrite(tag string, via Resolution) {
	for _, fn := range e.hooks.onWrite {
		fn(tag, via)
	}
}

func (e *Engine) callOnFallback(v any) {
	for _, fn := range e.hooks.onFallback {
		fn(v)
	}
}

func (e *Engine) callOnUnhandled(v any, err error) {
	for _, fn := range e.hooks.onUnhandled {
		fn(v, err)
	}
}
