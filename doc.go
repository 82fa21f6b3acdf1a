/*
Package logreport provides the shared types used to report errors and
diagnostic events from WebAssembly guest code to a remote collector.

The package defines Severity, the closed set of six log levels and their wire
names, and Record, the normalized payload handed to a transport. RuntimeConfig
and DefaultNamespace scope every host interaction made by the capability
clients in the sub-packages.

Most callers construct a reporter.Client and use its Report methods; the types
here are what those methods build and send.
*/
package logreport
