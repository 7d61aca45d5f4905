// Package kernel holds the shared value objects of the takeout domain:
// identifiers (UUID) and monetary amounts (Money). Both are immutable and
// their zero values are either invalid (UUID) or a well-defined zero (Money).
package kernel
