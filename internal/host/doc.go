// Package host is a minimal local package manager that drives installers the
// way composer does. It routes each package to the installer that supports
// its type, provides the default vendor install path, and places package
// files with a Transfer whose completion may be signalled asynchronously.
//
// Work that must follow a transfer is scheduled with Then, which runs the
// continuation once the Operation has completed successfully.
package host
