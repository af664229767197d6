/*
Package observability provides lifecycle hooks for monitoring the execution engine.

It includes Prometheus collectors for runs and blocks, structured logging hooks
for auditing, and Chain for combining several hook sets into one.
*/
package observability
