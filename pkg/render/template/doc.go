// Package template defines the template renderer seam used by the HTML
// renderer. The gotemplate subpackage provides the pongo2 backed engine.
package template
