// Package utils holds small helpers for reading spreadsheet values.
package utils
