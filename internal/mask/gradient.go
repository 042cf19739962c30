package mask

// Gradient evaluates an authored curve directly over [-1,1].
type Gradient struct {
	Curve  KeyCurve `yaml:"curve"`
	Smooth float32  `yaml:"smooth,omitempty"`
}

// Evaluate implements Evaluator.
func (g Gradient) Evaluate(lateral, _ float32) float32 {
	return finish(g.Curve.Eval(clampLateral(lateral)), g.Smooth)
}
