// Package ir provides the wire representation of compiled command sequences.
//
// A compiled sequence is an ordered []Command. Each Command is addressed to
// either the controller proxy ("PROXY") or the operator HMI ("HMI") and
// carries a definition whose shape depends on origin and action.
//
// This package contains type definitions, canonical serialization and
// content-addressed identity only. All other internal packages import ir;
// ir imports nothing internal.
//
// Key constraints:
//   - JSON keys are case-sensitive and fixed by the proxy/HMI contract
//   - Canonical JSON (RFC 8785) is the only serialization used for hashing
//   - Floats are allowed (positions) but NaN and Inf are rejected
package ir
