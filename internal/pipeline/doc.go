// Package pipeline assembles the loaded configuration and the stage registry
// into the task graph. Every stage body is decoded and built here, once, so
// configuration mistakes surface before the first task runs.
package pipeline
