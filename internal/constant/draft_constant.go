package constant

// Generation pipeline states, in lifecycle order. A run either reaches
// Completed or stops at Failed; there are no other terminal states.
const (
	StateReceived   = "received"
	StateAdmitted   = "admitted"
	StateRetrieving = "retrieving"
	StateGenerating = "generating"
	StateAssembling = "assembling"
	StatePersisting = "persisting"
	StateCompleted  = "completed"
	StateFailed     = "failed"
)

const (
	DefaultChunkCount = 3
	MaxChunkCount     = 10
)
