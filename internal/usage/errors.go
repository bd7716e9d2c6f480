package usage

import "errors"

// ErrLimitReached indicates the user exceeded their analysis quota for
// the current period.
var ErrLimitReached = errors.New("limit reached")
