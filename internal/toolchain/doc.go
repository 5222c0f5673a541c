// Package toolchain invokes the external tools a release depends on (cmake, the documentation
// converter). Every invocation is a Command with an explicit working directory; the process
// working directory is never changed.
package toolchain
