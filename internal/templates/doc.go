// Package templates discovers project templates and renders them into a new
// project directory. A templates root contains one directory per template;
// each may carry a template.yaml describing the template, extra questions,
// files to ignore, and dependencies to add after installation. File contents
// and path segments are rendered with text/template over the answers.
//
// A built-in "default" template is embedded in the binary and used when no
// templates root is configured.
package templates
