/*
Package domain contains the record model produced by the protocol parser.

It defines the typed records a plenary protocol is broken into, the errors the
parser reports and the lifecycle hooks it fires. The package is pure: no I/O,
no persistence, no logging.

# Key Entities

  - Record: closed set of typed records (header, agenda, agenda items, speeches, ...).
    Every record validates its raw input against a schema on construction and
    guards individual fields against writes or reads afterwards.
  - ProtocolRecord: the document aggregate holding one record per section.
  - EmptyRecord: stands in for a section that could not be parsed.
  - Document: the envelope handed to stores.
*/
package domain
