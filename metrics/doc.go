/*
Package metrics provides counters, gauges and histograms backed by the host
metrics capability.

The reporter uses it to count dispatches and failures and to time transport
calls. Emission is best-effort: Inc, Dec and Observe never return errors, and
marshal or host-call failures are dropped so they cannot change the outcome of
a report.
*/
package metrics
