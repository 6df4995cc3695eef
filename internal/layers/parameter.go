package layers

// Parameter is the configuration common to layer passes.
type Parameter struct {
	// PredictionStage disables layer data: the forward pass is not followed
	// by a backward pass.
	PredictionStage bool

	// PropagateGradient enables the backward pass. When false the backward
	// batch allocates and computes nothing.
	PropagateGradient bool
}

// DefaultParameter returns a training-stage parameter that propagates gradients.
func DefaultParameter() Parameter {
	return Parameter{PropagateGradient: true}
}
