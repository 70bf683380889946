package session

// Step is the closed, ordered set of wizard positions. Adjacency is encoded
// by integer order; anything outside the range is clamped before use so a
// stale button can never push a session out of bounds.
type Step int

const (
	StepWelcome Step = iota
	StepOne
	StepTwo
	StepThree
	StepFour
	StepAwaitingReceipt
)

// FirstInstructional and LastInstructional bound the navigable step range.
const (
	FirstInstructional = StepOne
	LastInstructional  = StepFour
)

var stepNames = map[Step]string{
	StepWelcome:         "welcome",
	StepOne:             "step1",
	StepTwo:             "step2",
	StepThree:           "step3",
	StepFour:            "step4",
	StepAwaitingReceipt: "waiting",
}

var stepByName = func() map[string]Step {
	m := make(map[string]Step, len(stepNames))
	for s, name := range stepNames {
		m[name] = s
	}
	return m
}()

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return "unknown"
}

// ParseStep maps a wire token back to a Step. The boolean is false for
// unknown tokens, which callers treat as a validation failure.
func ParseStep(name string) (Step, bool) {
	s, ok := stepByName[name]
	return s, ok
}

// Next returns the following instructional step, clamped at the last one.
func (s Step) Next() Step {
	if s >= LastInstructional {
		return LastInstructional
	}
	return s + 1
}

// Prev returns the preceding step, clamped at welcome.
func (s Step) Prev() Step {
	if s <= StepWelcome {
		return StepWelcome
	}
	return s - 1
}

// Clamp forces s into the navigable range.
func (s Step) Clamp() Step {
	if s < StepWelcome {
		return StepWelcome
	}
	if s > StepAwaitingReceipt {
		return StepAwaitingReceipt
	}
	return s
}

// IsInstructional reports whether s is one of the numbered tutorial screens.
func (s Step) IsInstructional() bool {
	return s >= FirstInstructional && s <= LastInstructional
}
