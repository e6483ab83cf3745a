// Package convert defines the document-to-Markdown converter contract and the
// backends that reach the external markitdown tool, either as a local binary
// or through a docker/podman container image.
package convert
