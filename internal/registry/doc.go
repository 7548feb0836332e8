// Package registry provides the central "glue" for the stage module system.
//
// The Registry maps the stage kinds used in pipeline files (e.g. "uglify") to
// the compiled Go factories that build them. During application startup the
// registry is populated by every module and then validated against the loaded
// configuration, so an unknown stage kind is reported before anything runs.
package registry
