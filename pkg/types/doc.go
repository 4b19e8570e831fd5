// Package types holds the capability interfaces injected into zprof's core
// logic. Nothing here touches a terminal; implementations live in pkg/ui.
package types
