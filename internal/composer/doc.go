// Package composer reads the composer.json metadata of a package. It exposes
// the fields the plugin installer consumes (identity, type, psr-4 autoload
// rules in declaration order, and the free-form "extra" block) and validates
// the file against an embedded JSON Schema.
package composer
