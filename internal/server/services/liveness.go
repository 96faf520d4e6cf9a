package services

import "time"

// Liveness thresholds. Two deliberately different values exist and must stay
// independently tunable:
//
//   - AdmissionTimeout gates command enqueue. A command against a device
//     whose heartbeat is older than this is refused outright, so commands
//     never pile up against a dead device.
//   - StatusTimeout is the stricter threshold used when reporting an
//     online/offline flag to the UI, so the app flips to "offline" a bit
//     before enqueue starts refusing.
const (
	AdmissionTimeout = 60 * time.Second
	StatusTimeout    = 45 * time.Second
)
