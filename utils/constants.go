// File: utils/constants.go
package utils

import "time"

// AvailabilityCachePrefix is the prefix used for Redis availability cache keys.
const AvailabilityCachePrefix = "avail:"

// AvailabilityCacheTTL is the time-to-live for availability cache entries.
// Short on purpose: cached slot lists are a display hint only and the booking
// coordinator always re-validates at commit.
const AvailabilityCacheTTL = 30 * time.Second
