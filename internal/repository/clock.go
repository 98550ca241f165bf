package repository

import "time"

// nowUTC is swapped in tests to pin relative date windows.
var nowUTC = func() time.Time {
	return time.Now().UTC()
}
