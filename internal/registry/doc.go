// Package registry provides the Type Registry: the table binding each
// runtime type to its constructor, its string matcher, and, depending on its
// capability, its attribute and/or modifier dispatch tables.
//
// Every type is registered explicitly during startup by passing function
// references. A type may be re-registered only when the new declaration
// strictly adds capability (plain -> attributable -> both); anything else is
// rejected with ErrAlreadyRegistered.
//
// Registration is expected to complete before dispatch begins. Queries are
// safe for concurrent use and take a shared lock only.
package registry
