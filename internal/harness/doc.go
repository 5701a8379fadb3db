// Package harness runs compilation scenarios for golden testing.
//
// A scenario is a YAML file naming one action, inline or by reference to an
// action document, plus assertions on the commands it compiles to:
//
//	name: drill_default
//	description: drilling without report
//	uids: [drill-1]
//	action:
//	  type: WORK.DRILL
//	  definition: {speed: 3000, feed: 50}
//	assertions:
//	  - type: command_count
//	    count: 4
//	  - type: tracker_paired
//
// Tracker uids come from the scenario's uids list, or from a sequential
// generator when the list is empty, so compiled output is byte-stable and can
// be compared against testdata/golden/<name>.golden with goldie.
//
// Every successful run is written to an in-memory store and read back; a
// sequence that does not survive the round trip fails the scenario.
package harness
