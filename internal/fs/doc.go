// Package fs provides the filesystem seam used to persist arena snapshots.
//
//   - [File] and [FileSystem] abstract the few operations an atomic write needs.
//   - [LocalFS] is the production implementation over the os package.
//   - [FaultyFS] injects write, sync and rename failures in tests.
//   - [WriteAtomic] writes a file through a temporary sibling, syncs it and
//     renames it into place, so readers see either the old or the new file.
package fs
