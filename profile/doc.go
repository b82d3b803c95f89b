// Package profile starts optional runtime profiling through
// [github.com/pkg/profile].
//
// Profiling is compiled in only with the "pprof" build tag:
//
//	go build -tags pprof -o rptkit .
//
// Without the tag, [Modes] is empty and [Start] always returns a profiler
// whose Stop does nothing.
//
// Supported modes are allocs, block, clock, cpu, goroutine, heap, mem,
// mutex, thread, and trace. Profiles are written under the directory set by
// [WithDir], which the CLI defaults to the [Tag] subdirectory of the user
// cache directory.
package profile
