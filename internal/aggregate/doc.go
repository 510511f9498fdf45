// Package aggregate runs the configured constraint sources, applies
// ignore-declaration requests and merges everything into one record per
// program element, grouped by declaring type.
package aggregate
