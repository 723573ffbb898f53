package model

// Step is the position of a session in the fixed screening sequence
type Step string

const (
	StepIdle          Step = "idle"
	StepAwaitingStart Step = "awaiting_start" // Rules shown, waiting for the "go" button
	StepQ1            Step = "q1"
	StepQ2            Step = "q2"
	StepQ3            Step = "q3"
	StepQ4            Step = "q4"
	StepQ5            Step = "q5"
	StepQ6            Step = "q6"
	StepAwaitingLink  Step = "awaiting_link" // Project link / NDA / decline
	StepCompleted     Step = "completed"
)

// QuestionKey identifies one of the six screening questions
type QuestionKey string

const (
	Q1 QuestionKey = "q1"
	Q2 QuestionKey = "q2"
	Q3 QuestionKey = "q3"
	Q4 QuestionKey = "q4"
	Q5 QuestionKey = "q5"
	Q6 QuestionKey = "q6"
)

// QuestionKeys is the fixed question order
var QuestionKeys = []QuestionKey{Q1, Q2, Q3, Q4, Q5, Q6}

// QuestionSteps maps each question step to its answer key
var QuestionSteps = map[Step]QuestionKey{
	StepQ1: Q1,
	StepQ2: Q2,
	StepQ3: Q3,
	StepQ4: Q4,
	StepQ5: Q5,
	StepQ6: Q6,
}

// IsQuestion reports whether the step collects a question answer
func (s Step) IsQuestion() bool {
	_, ok := QuestionSteps[s]
	return ok
}

// Index returns the 1-based question number for question steps, 0 otherwise
func (k QuestionKey) Index() int {
	for i, key := range QuestionKeys {
		if key == k {
			return i + 1
		}
	}
	return 0
}
