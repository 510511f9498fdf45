// Package diagnostic provides structured errors, warnings and infos
// collected while reading constraint declarations from struct tags and
// descriptor files.
//
// Diagnostics are gathered rather than returned one at a time so that a
// single run reports every problem in a descriptor or package.
package diagnostic
