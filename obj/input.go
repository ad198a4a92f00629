package obj

// Input holds the logical actions for a single tick. Providers translate
// physical keys into it; the simulation never polls devices itself.
type Input struct {
	MoveLeft  bool
	MoveRight bool
	Jump      bool
	Fire      bool
}

// ScriptStep holds an input for the ticks in [From, To).
type ScriptStep struct {
	From, To int
	Input    Input
}

// Script is a scripted input sequence for headless runs and tests.
// Overlapping steps are merged.
type Script []ScriptStep

// At returns the input for the given tick.
func (s Script) At(tick int) Input {
	var in Input
	for _, step := range s {
		if tick < step.From || tick >= step.To {
			continue
		}
		in.MoveLeft = in.MoveLeft || step.Input.MoveLeft
		in.MoveRight = in.MoveRight || step.Input.MoveRight
		in.Jump = in.Jump || step.Input.Jump
		in.Fire = in.Fire || step.Input.Fire
	}
	return in
}

// Len returns the first tick after the last step.
func (s Script) Len() int {
	n := 0
	for _, step := range s {
		n = max(n, step.To)
	}
	return n
}
