// Package tracker maintains the installed-plugin registry, a flat JSON object
// mapping plugin names to install paths relative to the project root:
//
//	{"UserAuthentication": "plugins/user_authentication", "Generate": "vendor/originphp/generate"}
//
// Every operation loads the whole file, applies one upsert or delete and
// rewrites the file in full through a temp file and rename, so a reader never
// sees a partial registry. A registry that exists but cannot be parsed is an
// error; it is never treated as empty.
package tracker
