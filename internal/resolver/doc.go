// Package resolver derives the logical plugin name and the install path of a
// plugin package from its composer metadata. Resolution is a pure function of
// the metadata: no filesystem access and no cached state.
//
// Both decisions are ordered lists of strategies tried in sequence; the first
// non-empty answer wins.
package resolver
