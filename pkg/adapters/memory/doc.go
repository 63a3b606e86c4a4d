// Package memory provides in-process implementations of the strata ports.
package memory
