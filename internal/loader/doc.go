// Package loader reads and writes classification rule files.
//
// A rule file is YAML with four optional sections (departments, levels,
// processes, exceptions) mirroring classifier.Rules. Every classification,
// operator and field name is validated while loading, so a loaded rule set
// never carries a value the engine would have to skip.
package loader
