// Package bootstrap assembles the conversion backends shared by the desktop
// application and the convert command.
package bootstrap
