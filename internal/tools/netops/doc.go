// Package netops provides network inspection and port management tools.
//
// Connectivity probes (ping, port checks) run with bounded timeouts from
// configuration. Connection table reads come from gopsutil and degrade per
// entry when a process cannot be identified.
package netops
