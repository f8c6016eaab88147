// Package classifier implements the position classification rule engine.
//
// A RuleSet holds four kinds of rules: prioritized exceptions, unconditional
// level rules, process-type rules and department rules (ordered field
// conditions over a default). Engine.Explain evaluates them in that order and
// falls back to keyword heuristics when nothing matches, so every position
// gets exactly one classification.
//
// RuleSets are immutable. Engine holds the current set behind an atomic
// pointer; Replace and Update swap in a new set without disturbing
// concurrent classification.
//
// No classification call panics or returns an error. A rule that panics is
// treated as not matching and evaluation continues with the next rule.
package classifier
