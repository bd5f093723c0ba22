// Package graph defines the design graph types for shell models.
// The design graph is an immutable DAG of geodesic shells, hole drills,
// transforms, and groups produced by evaluating a design script.
package graph
