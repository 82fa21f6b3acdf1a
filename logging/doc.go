/*
Package logging offers a client for writing log lines from WebAssembly guest
code to the host runtime's own log.

It is used for the SDK's internal tracing, not for reporting events to the
remote collector; that is the job of package reporter.
*/
package logging
