// Package message defines the protocol between the frontend and the model
// worker: Commands flow in, Results flow out.
package message

import "fmt"

// Command is a request to the model worker.
// It is one of Train, Generate or Shutdown.
type Command interface {
	isCommand()
}

// Train runs Iterations training steps numbered from Start.
// A non-empty DataPath (re)loads the training data first.
type Train struct {
	Iterations int
	Start      int
	DataPath   string
}

// Generate samples Count words from the model.
type Generate struct {
	Count int
}

// Shutdown stops the worker loop.
type Shutdown struct{}

func (Train) isCommand()    {}
func (Generate) isCommand() {}
func (Shutdown) isCommand() {}

// Result is emitted by the model worker.
// It is one of Progress, Generated, Error or Finished.
type Result interface {
	isResult()
}

// LossKind tags a Progress loss.
type LossKind int

// Loss kinds.
const (
	Training LossKind = iota
	Validation
)

// String returns a human-readable kind name.
func (k LossKind) String() string {
	switch k {
	case Training:
		return "training"
	case Validation:
		return "validation"
	default:
		return fmt.Sprintf("LossKind(%d)", int(k))
	}
}

// Progress reports the loss at one iteration.
type Progress struct {
	Kind      LossKind
	Iteration int
	Loss      float32
}

// Generated carries one sampled word. Truncated is set when the word hit the
// length cap before the model produced a delimiter.
type Generated struct {
	Text      string
	Truncated bool
}

// Error reports a failed operation. The worker keeps running.
type Error struct {
	Message string
}

// Finished marks the end of an operation's results.
type Finished struct{}

func (Progress) isResult()  {}
func (Generated) isResult() {}
func (Error) isResult()     {}
func (Finished) isResult()  {}

// ErrorFrom wraps err as an Error result.
func ErrorFrom(err error) Error {
	return Error{Message: err.Error()}
}
