// File: utils/constants.go
package utils

import "time"

// AvailabilityCachePrefix is the prefix used for cached availability results.
const AvailabilityCachePrefix = "avail:"

// StoreTimeout bounds a single repository round trip.
const StoreTimeout = 5 * time.Second

// Principal roles carried in the JWT "role" claim.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)
