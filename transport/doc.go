/*
Package transport delivers log records to the remote collector.

Transport is the contract the reporter depends on: one Send per record, an
error when delivery fails. HostTransport implements it by posting a JSON
document to <endpoint>/log through the host HTTP capability, authenticated
with a bearer token. Each request carries a fresh X-Request-ID. Bodies can
optionally be zstd-compressed.

Send does not retry. Timeouts are those of the host HTTP capability.
*/
package transport
