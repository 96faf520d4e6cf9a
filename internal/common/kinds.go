package common

// Command kinds understood by the device. The set is closed: enqueue
// rejects anything else.
const (
	KindPhoto          = "photo"
	KindRecord         = "record"
	KindStartRecording = "start_recording"
	KindStopRecording  = "stop_recording"
	KindStatus         = "status"
	KindStartPreview   = "start_preview"
	KindStopPreview    = "stop_preview"
)

var validKinds = map[string]struct{}{
	KindPhoto:          {},
	KindRecord:         {},
	KindStartRecording: {},
	KindStopRecording:  {},
	KindStatus:         {},
	KindStartPreview:   {},
	KindStopPreview:    {},
}

// ValidKind reports whether kind belongs to the closed command set.
func ValidKind(kind string) bool {
	_, ok := validKinds[kind]
	return ok
}

// Command lifecycle statuses. pending → executing → completed|failed;
// terminal states never transition back.
const (
	StatusPending   = "pending"
	StatusExecuting = "executing"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)
