// Package services implements the driving port interfaces.
// Services contain the core business logic: fetching, classifying,
// summarising and profiling posts. They orchestrate calls to driven
// ports (adapters) and never talk to the network directly.
package services
