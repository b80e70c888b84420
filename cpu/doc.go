// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package cpu executes instructions of an isa.Set.
//
// Execute evaluates an instruction against the pre-instruction state and
// records its effects in a Transaction; Commit applies them. An
// instruction that fails leaves the state untouched.
//
// Branches have a single delay slot: the instruction after a taken branch
// always executes before control reaches the branch target.
package cpu
