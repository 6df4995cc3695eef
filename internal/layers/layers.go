// Package layers holds the types shared by every layer pass: layer kinds and
// methods, the layer-data bundle handed from a forward result to a backward
// input, layer parameters, batch options and the error taxonomy.
//
// The passes themselves live in the forward and backward subpackages; concrete
// layers (abs, tanh, relu, logistic) only supply kernels and register them.
package layers

import "fmt"

// Method selects the numeric algorithm variant of a layer.
type Method int

// Supported methods.
const (
	DefaultDense Method = iota
)

// String returns the method name.
func (m Method) String() string {
	switch m {
	case DefaultDense:
		return "defaultDense"
	default:
		return fmt.Sprintf("method(%d)", int(m))
	}
}

// Kind identifies a layer family.
type Kind int

// Layer kinds.
const (
	Abs Kind = iota
	Tanh
	ReLU
	Logistic
)

// String returns the layer name.
func (k Kind) String() string {
	if d, ok := descriptors[k]; ok {
		return d.Name
	}
	return fmt.Sprintf("layer(%d)", int(k))
}

// ParseKind looks a layer kind up by name.
func ParseKind(name string) (Kind, error) {
	for _, k := range Kinds() {
		if descriptors[k].Name == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown layer %q", name)
}

// Kinds lists every layer kind.
func Kinds() []Kind {
	return []Kind{Abs, Tanh, ReLU, Logistic}
}

// Descriptor is the static identity of a layer, independent of element type.
type Descriptor struct {
	Kind              Kind
	Name              string
	Methods           []Method
	Forward           bool // Has a forward pass.
	Backward          bool // Has a backward pass.
	BackwardParameter bool // Backward pass carries a Parameter.
}

var descriptors = map[Kind]Descriptor{
	Abs:      {Kind: Abs, Name: "abs", Methods: []Method{DefaultDense}, Forward: true, Backward: true},
	Tanh:     {Kind: Tanh, Name: "tanh", Methods: []Method{DefaultDense}, Forward: true, Backward: true, BackwardParameter: true},
	ReLU:     {Kind: ReLU, Name: "relu", Methods: []Method{DefaultDense}, Forward: true, Backward: true, BackwardParameter: true},
	Logistic: {Kind: Logistic, Name: "logistic", Methods: []Method{DefaultDense}, Forward: true, Backward: true, BackwardParameter: true},
}

// Describe returns the descriptor of k.
func Describe(k Kind) (Descriptor, bool) {
	d, ok := descriptors[k]
	return d, ok
}

// State is the lifecycle state of a batch.
type State int

// Batch states.
const (
	Constructed State = iota // No result sized for the current input.
	Allocated                // Result sized; Compute may run.
	Executed                 // Compute finished; result is valid.
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Constructed:
		return "constructed"
	case Allocated:
		return "allocated"
	case Executed:
		return "executed"
	default:
		return "unknown"
	}
}
