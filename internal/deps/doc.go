// Package deps declares the external binaries soundcheck relies on, reports
// their availability, and installs missing ones through the host package
// manager.
//
// Package managers are described by a static table behind a small lookup so
// adding a manager never touches call sites. Installation is inherently
// privileged and host-mutating; callers gate it behind explicit user intent.
package deps
