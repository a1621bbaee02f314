package pdf

// State is the build state of a [Document].
//
// A new document is empty. AddPage opens a page, BeginTable and EndTable
// move between an open page and an open table, and ToData closes the
// document from either of them. A closed document accepts no further
// content.
type State int

const (
	StateEmpty State = iota
	StatePageOpen
	StateTableOpen
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StatePageOpen:
		return "page open"
	case StateTableOpen:
		return "table open"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}
