// Package dag is the execution layer of assetgrid. It takes the immutable list
// of task definitions produced by the pipeline assembly, validates it into a
// Graph once at start-up, and executes invocations against it.
//
// A Graph never changes after New returns. Each call to Executor.Run resolves
// the invoked task's transitive prerequisites into a plan and drives that plan
// through a worker pool: a task is queued once its dependency counter reaches
// zero, and a failure propagates as a skip to everything downstream of it.
package dag
