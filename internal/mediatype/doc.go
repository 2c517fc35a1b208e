// Package mediatype normalizes media types and parses Accept headers into an
// ordered preference list.
package mediatype
