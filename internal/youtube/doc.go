// Package youtube converts video URLs to Markdown. It resolves video ids,
// fetches display metadata over oEmbed, scrapes caption tracks from the watch
// page, and lists playlists.
package youtube
