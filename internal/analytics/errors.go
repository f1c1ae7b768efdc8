package analytics

import "errors"

// ErrDataUnavailable is returned when one or more input streams failed to
// respond within the fetch bound or the facility does not exist. No partial
// report is ever returned in that case; a report with silently-missing
// sections would mislead budget and forecast decisions.
var ErrDataUnavailable = errors.New("analytics data unavailable")

// ErrInvalidWindow is returned when an explicit reporting window has its
// start at or after its end.
var ErrInvalidWindow = errors.New("invalid reporting window")
