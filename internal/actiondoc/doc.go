// Package actiondoc reads action documents: the planned actions handed to
// the compiler, written as YAML, JSON or CUE.
//
// Every action is checked against the embedded CUE schema (schema.cue,
// definition #Action) before it is converted into a model.Action, so the
// compiler only sees well-formed definitions.
//
// Document layout:
//
//	actions:
//	  - type: WORK.DRILL
//	    description: drilling of assembly 12
//	    definition:
//	      speed: 3000
//	      feed: 50
//	      peak: true
package actiondoc
