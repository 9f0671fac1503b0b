package chat

import "fmt"

// StepRegistry maps each non-terminal state, plus COMPLETED, to the step that owns it.
type StepRegistry struct {
	steps map[State]Step
}

func NewStepRegistry() *StepRegistry {
	return &StepRegistry{steps: make(map[State]Step)}
}

// Register adds a step. A state can be owned by one step only.
func (r *StepRegistry) Register(step Step) error {
	state := step.State()
	if state == "" {
		return fmt.Errorf("step %T has empty state", step)
	}
	if _, ok := r.steps[state]; ok {
		return fmt.Errorf("state %q registered twice", state)
	}
	r.steps[state] = step
	return nil
}

func (r *StepRegistry) Get(state State) (Step, bool) {
	step, ok := r.steps[state]
	return step, ok
}

// States lists registered states.
func (r *StepRegistry) States() []State {
	states := make([]State, 0, len(r.steps))
	for s := range r.steps {
		states = append(states, s)
	}
	return states
}
