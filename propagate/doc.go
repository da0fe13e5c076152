// Package propagate implements the two SOS1 fixing rules.
//
//   - RuleConstraint: inside one constraint, a single member whose bounds
//     exclude zero fixes every other member to zero; two such members are a
//     cutoff.
//   - RuleGraph: a conflict graph node whose bounds exclude zero fixes every
//     neighbour to zero, across constraints.
//
// Both report the number of bound changes; zero means nothing was found.
// Infeasibility is reported through Result.Cutoff, never as an error.
package propagate
