/*
Package ports defines the interfaces between the parser and the outside world.

# Key Interfaces

  - ProtocolParser: the driving port used by the HTTP and MCP adapters.
  - ProtocolStore: persists parsed protocols as domain.Document values.
  - ProtocolDeleter: optional removal capability of a store.
  - DistributedLocker: serializes uploads of the same protocol across replicas.

RunProtocolStoreContract is the shared test suite every store adapter runs.
*/
package ports
