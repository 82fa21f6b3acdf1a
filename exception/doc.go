/*
Package exception turns exception-like values handed over by the host into
log records.

The host passes errors as loosely typed objects. Value models such an object as
a bag of properties whose reads return a Field, either Found(text) or Absent.
Map covers decoded property maps and JSON covers raw JSON documents.

FromValue needs a readable "message"; "stack" is optional.
*/
package exception
