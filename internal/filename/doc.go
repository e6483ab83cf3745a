// Package filename builds the names of saved Markdown files.
package filename
