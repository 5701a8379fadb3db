package ir

// Version constants for the wire schema and the compiler.
const (
	// IRVersion is the command wire schema version.
	IRVersion = "1"

	// CompilerVersion is the sequence compiler version.
	CompilerVersion = "0.1.0"
)
