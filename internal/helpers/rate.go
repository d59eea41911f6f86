package helpers

import (
	"time"

	"golang.org/x/time/rate"
)

// OnceAMinute throttles repetitive warnings.
var OnceAMinute = &rate.Sometimes{Interval: time.Minute}
