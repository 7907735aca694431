// Package versioncheck looks up the newest published release of each
// package manager on the npm registry. Results are cached for a day in the
// config directory so repeated doctor runs stay offline.
package versioncheck
