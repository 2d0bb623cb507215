// Package config loads project-level installer settings from an optional
// origin-plugins.yaml in the project root, with ORIGINPHP_* environment
// variables taking precedence over the file.
package config
