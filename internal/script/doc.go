// Package script is the embedding surface of the runtime. A Runtime ties a
// type registry to the attribute and modifier engines and a parse cache,
// and exposes the entry points a host program needs: resolve an expression
// against a value, construct or infer a value from text, apply a modifier,
// and install configured aliases and presets.
package script
