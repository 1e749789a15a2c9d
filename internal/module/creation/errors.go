package creation

import apperrors "github.com/quickai/server/internal/utils/errors"

// ErrCreationNotFound is returned when no creation has the requested id.
var ErrCreationNotFound = apperrors.NotFound("creation")
