// Package domain contains the core business entities and errors.
// It has no dependencies on other packages in this module.
package domain
