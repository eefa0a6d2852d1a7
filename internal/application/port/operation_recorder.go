package port

// OperationRecorder counts prompt store operations by outcome.
type OperationRecorder interface {
	RecordPromptOperation(operation, outcome string)
}
