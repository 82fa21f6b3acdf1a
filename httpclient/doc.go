/*
Package httpclient sends HTTP requests through the host's httpclient capability.

Requests are encoded as protobuf and passed to the host over waPC; the host
performs the network call and returns status, headers and body. Failures carry
sentinel errors (ErrInvalidURL, logreport.ErrHostCall, logreport.ErrHostError,
...) joined with the underlying cause, so they can be checked with errors.Is.
*/
package httpclient
