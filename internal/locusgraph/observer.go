// File: internal/locusgraph/observer.go
package locusgraph

// MoveEvent announces a structural graph change that alters the meaning of
// a NodeIndex: IsAdd=true when a node appears at Node, IsAdd=false when the
// node at Node is gone. An erase in the middle of the dense storage emits
// one delete for the erased node plus an add/delete pair for every node
// whose index shifted down.
type MoveEvent struct {
	IsAdd bool
	Locus LocusIndex
	Node  NodeIndex
}

// Observer receives MoveEvents synchronously on the goroutine performing
// the mutation. Observers must not mutate the graph from the callback.
type Observer interface {
	OnNodeMove(ev MoveEvent)
}

// ObserverFunc adapts a plain function to the Observer interface.
type ObserverFunc func(ev MoveEvent)

func (f ObserverFunc) OnNodeMove(ev MoveEvent) { f(ev) }
