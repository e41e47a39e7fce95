// Package chain turns dotted, parenthesized expression text such as
// `name(context).attr2(key=val;key2=val2).attr3` into an ordered Chain of
// Segments, and provides the cursor used by the dispatch engines to walk it.
//
// Parsing is a single linear scan with no backtracking. Successful results
// are cached process-wide, keyed by the exact input text; the cached segment
// slice is immutable and shared, while every returned Chain owns its own
// cursor.
package chain
