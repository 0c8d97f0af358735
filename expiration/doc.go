// Package expiration provides policies for controlling when memoized results
// are considered expired.
//
// This package defines the ExpirationPolicy interface and several
// implementations that determine when cached items should be considered
// expired. A policy can be plugged into a Memo to customize validity checks,
// for example to expire values early with some probability and avoid many
// callers recomputing at the same instant.
package expiration
