package loom

// IncomingRequest is the inbound request descriptor handed to the pipeline by a
// transport layer. The core treats it as opaque data: key/value headers, a
// body value and routing-resolved parameters.
type IncomingRequest struct {
	Headers map[string]string
	Params  map[string]string
	Body    any
}

func (r *IncomingRequest) Header(name string) string {
	if r.Headers == nil {
		return ""
	}
	return r.Headers[name]
}

func (r *IncomingRequest) Param(name string) string {
	if r.Params == nil {
		return ""
	}
	return r.Params[name]
}

// HandlerFunc is the unit of business logic invoked exactly once per
// pipeline run, with the pipe-transformed inputs supplied in declared order.
type HandlerFunc func(pc *PipelineContext, args []any) (any, error)

// Binding declares one handler input and how to extract its raw value from
// the request before pipes run.
type Binding struct {
	Name    string
	Extract func(req *IncomingRequest) any
}

// Param binds a routing-resolved parameter.
func Param(name string) Binding {
	return Binding{
		Name: name,
		Extract: func(req *IncomingRequest) any {
			return req.Param(name)
		},
	}
}

// Body binds the request body value.
func Body() Binding {
	return Binding{
		Name: "body",
		Extract: func(req *IncomingRequest) any {
			return req.Body
		},
	}
}

// Header binds a request header.
func Header(name string) Binding {
	return Binding{
		Name: name,
		Extract: func(req *IncomingRequest) any {
			return req.Header(name)
		},
	}
}

// Handler references the business logic the pipeline dispatches to, already
// matched to the request by a routing component. It owns no state; metadata
// attaches to it (or to Owner) through the MetadataStore.
type Handler struct {
	Name     string
	Owner    any
	Bindings []Binding
	Invoke   HandlerFunc
}

func NewHandler(name string, fn HandlerFunc, bindings ...Binding) *Handler {
	return &Handler{
		Name:     name,
		Bindings: bindings,
		Invoke:   fn,
	}
}

// WithOwner sets the owning group reference used for metadata ancestry.
func (h *Handler) WithOwner(owner any) *Handler {
	h.Owner = owner
	return h
}
