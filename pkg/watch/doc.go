// Package watch re-lints C-family sources as they change.
//
// A Watcher subscribes to file system notifications under a set of roots,
// debounces bursts of writes per file through a Queue, and runs the lint
// engine over files once they have been quiet for the configured delay.
// The latest result for each file is kept in a Store and can be served over
// HTTP:
//
//	GET /healthz            watcher status
//	GET /results            all results, ?violations=true to filter
//	GET /results/{path}     result for one file
//	GET /metrics            prometheus metrics
package watch
