// Package classify implements the classification engine: the candidate
// model, the dependency-ordered classifier scheduler with its three-phase
// per-page pipeline (score, build, select winner), consumption tracking,
// and the optional constraint solver for globally consistent winner
// assignment.
package classify
