// Package domain holds the core types and collaborator interfaces shared
// across the engine, adapters, and transport layers. It has no dependencies
// on other internal packages.
package domain
