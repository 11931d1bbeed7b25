package hitprint

import (
	"github.com/kailas-cloud/hitprint/internal/db"
	"github.com/kailas-cloud/hitprint/internal/domain"
)

// Sentinel errors re-exported from the internal layers.
// Use errors.Is() to check.
var (
	ErrInvalidQuery  = domain.ErrInvalidQuery
	ErrUnknownDriver = domain.ErrUnknownDriver
	ErrIndexNotFound = db.ErrIndexNotFound
)

// BackendError is the error type returned by the search backends.
// Op names the failed command (FT.SEARCH, _search, ...).
type BackendError = db.Error
