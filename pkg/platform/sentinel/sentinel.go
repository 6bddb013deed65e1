package sentinel

import "errors"

// Sentinel errors for storage facts. Ledger stores and the embedding index
// return these (optionally wrapped); services translate them into domain errors.
//
//   - ErrNotFound: row or entry does not exist
//   - ErrAlreadyUsed: a uniqueness constraint rejected the write
//   - ErrCorrupt: persisted state could not be decoded
//   - ErrUnavailable: backing resource could not be reached
var (
	ErrNotFound    = errors.New("not found")
	ErrAlreadyUsed = errors.New("already used")
	ErrCorrupt     = errors.New("corrupt")
	ErrUnavailable = errors.New("unavailable")
)
