// Package job runs one conversion at a time in the background. Each job
// applies its proxy scope, calls the converter, releases the scope and reports
// exactly one outcome through the registered callbacks.
package job
