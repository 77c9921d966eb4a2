package loom

// ExceptionFilter declares which error kinds it handles and produces the
// final error response for them. Filters are consulted in order; the first
// match wins.
type ExceptionFilter interface {
	Handles(err error) bool
	Catch(pc *PipelineContext, err error) any
}

type filterFunc struct {
	handles func(err error) bool
	catch   func(pc *PipelineContext, err error) any
}

func (f *filterFunc) Handles(err error) bool {
	return f.handles(err)
}

func (f *filterFunc) Catch(pc *PipelineContext, err error) any {
	return f.catch(pc, err)
}

// FilterFor builds a filter matching one error code.
func FilterFor(code ErrorCode, catch func(pc *PipelineContext, err *Error) any) ExceptionFilter {
	return &filterFunc{
		handles: func(err error) bool {
			return HasCode(err, code)
		},
		catch: func(pc *PipelineContext, err error) any {
			return catch(pc, asError(err))
		},
	}
}

// FilterMatch builds a filter from an arbitrary predicate.
func FilterMatch(handles func(err error) bool, catch func(pc *PipelineContext, err error) any) ExceptionFilter {
	return &filterFunc{handles: handles, catch: catch}
}
