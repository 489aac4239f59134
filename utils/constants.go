// File: utils/constants.go
package utils

import "time"

// AvailabilityCachePrefix is the prefix used for Redis provider availability cache keys.
const AvailabilityCachePrefix = "availability:"

// AvailabilityCacheTTL is the time-to-live for provider availability cache entries.
const AvailabilityCacheTTL = 10 * time.Minute

// DraftKeyPrefix is the prefix used for Redis booking draft keys.
const DraftKeyPrefix = "draft:"

// DraftTTL is the time-to-live for booking drafts.
const DraftTTL = 30 * time.Minute

// SubmitLockPrefix is the prefix used for Redis submit lock keys.
const SubmitLockPrefix = "draft:submit:"

// SubmitLockTTL bounds how long a submission attempt may hold the lock.
const SubmitLockTTL = 2 * time.Minute
