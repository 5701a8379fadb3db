// Package model holds the domain intents the compiler consumes: positions,
// movements and the per-family action definitions.
//
// Values here are already validated by the planning layer. The compiler only
// checks what it needs to map them onto registers.
package model
