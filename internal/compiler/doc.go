// Package compiler turns planned robot actions into ordered command sequences.
//
// Each action type tag resolves, through the Registry, to one sequence
// family (trajectory, probing, drilling, tool/frame change, manipulation).
// A family combines the proxy and HMI steps in a fixed order. Compilation is
// pure: the only source of variation between two runs is the tracker uid.
package compiler
