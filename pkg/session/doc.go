/*
Package session implements per-word access orchestration over a CoordinateStore.

It serializes operations on the same word within a process and, when a
DistributedLocker is configured, across replicas. It is what the HTTP and MCP
adapters use in front of the configured persistence backend.
*/
package session
