// Package utils provides common utility functions for the stock-manager application.
// It includes helper functions for lenient type conversion used by the row
// normalizer and the snapshot engine, and other shared logic that doesn't fit
// into domain-specific packages.
package utils
