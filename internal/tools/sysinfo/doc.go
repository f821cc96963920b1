// Package sysinfo provides host, hardware and environment inspection tools.
//
// Platform-specific inventory (installed applications, registry-backed OS
// details) is behind build-tagged implementations of small capability
// interfaces; unsupported platforms report that instead of failing.
package sysinfo
