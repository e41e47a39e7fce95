// Package dispatch provides the per-type tables mapping operation names to
// processors: AttributeTable for derivations that yield a new value, and
// ModifierTable for in-place mutations.
//
// Tables are populated during startup and read concurrently afterwards.
// Registering an existing name is skipped and reported to the diag hook;
// extending an existing name composes the processors so the new one runs
// first and the old one acts as its fallback.
package dispatch
