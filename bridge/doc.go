/*
Package bridge exposes a reporter.Client to the host as waPC guest functions.

Register installs three functions:

  - reportCustom takes {"level": string, "message": string, "stackTrace"?: string}.
  - reportLevel takes the same document; level must be one of the six severity names.
  - reportNativeError takes the host's exception object, reading "message" and "stack".

waPC calls are synchronous, so each function waits for its report to finish and
returns the report's error, if any, to the host. A reportNativeError payload
without a readable message fails with "Could not get error message".
*/
package bridge
