// Package errors provides structured error types for better observability
// and programmatic error handling across the application.
//
// Example usage:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeInvalidData,
//	    "non-numeric nutrient value",
//	    parseErr,
//	    map[string]any{
//	        "row":    12,
//	        "column": "protein",
//	    },
//	)
package errors
