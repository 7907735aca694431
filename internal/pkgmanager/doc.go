// Package pkgmanager drives the JavaScript package manager of a generated
// project. It detects which of npm, yarn, or pnpm should be used for a
// directory and translates the three operations the scaffolder needs (create a
// manifest, install recorded dependencies, add new dependencies) into a
// subprocess invocation of the matching executable.
package pkgmanager
