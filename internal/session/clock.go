package session

import "time"

// nowFunc is swapped in tests to pin token expiry checks.
var nowFunc = time.Now
