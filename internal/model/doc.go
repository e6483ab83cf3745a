// Package model defines domain data structures used across the app: conversion
// requests and outcomes, proxy configuration, video metadata, and job status
// enums. Values are copied between goroutines, never shared by pointer.
package model
