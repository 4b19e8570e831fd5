// Package filesystem provides the filesystem seam used by every zprof
// component.
//
// All code takes an afero.Fs so tests can run against an in-memory
// filesystem (afero.NewMemMapFs) or a fault-injecting wrapper, while the
// CLI passes the real OS filesystem from NewOS. The helpers here cover the
// few compound operations the safety subsystem needs: byte-for-byte copies
// that preserve mode bits, atomic writes and existence checks that tell
// "absent" apart from "could not look".
package filesystem
