// Package platform contains OS integration: writing converted Markdown to
// disk, default output locations, and revealing or opening saved files.
package platform
