package table

// Label is the inner key of a Sparse table: a class name.
//
// The zero Label is NoClass, the marker for "no class observed yet". It can be
// used as a key during training but is excluded from averaged and persisted
// models. There is no way to build a named Label with an empty name, so the
// marker cannot collide with a real class.
type Label struct {
	name string
}

// NoClass is the reserved "no class yet" label.
var NoClass = Label{}

// NewLabel returns the label with the given name. An empty name yields NoClass.
func NewLabel(name string) Label {
	return Label{name: name}
}

// Name returns the class name, or "" for NoClass.
func (l Label) Name() string {
	return l.name
}

// IsNoClass reports whether l is the reserved NoClass marker.
func (l Label) IsNoClass() bool {
	return l.name == ""
}

// String implements fmt.Stringer.
func (l Label) String() string {
	if l.IsNoClass() {
		return "<no-class>"
	}
	return l.name
}
