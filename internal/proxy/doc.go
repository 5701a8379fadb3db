// Package proxy builds the requests understood by the controller proxy.
//
// Low-level builders (BuildRead, BuildWrite, BuildTrack) turn a register
// range and values into complete request descriptors, splitting oversized
// transfers into batches that respect the register family limits. The
// Builder composes them into the high-level steps a robot program needs:
// selecting tool and frame, loading movements, running a program and
// waiting for it to finish.
//
// Nothing here performs I/O. The output is a list of ir.Command values for
// an external executor.
package proxy
