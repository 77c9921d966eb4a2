package scope

type Scope int

const (
	Singleton Scope = iota
	Request
	Transient
)

func (s Scope) String() string {
	switch s {
	case Singleton:
		return "singleton"
	case Request:
		return "request"
	case Transient:
		return "transient"
	default:
		return "unknown"
	}
}
