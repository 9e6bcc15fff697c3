// Package uploads delivers finished recordings to their configured
// destinations: a local library tree, a flat directory, SFTP, and WebDAV.
// Destinations are independent; one failing never blocks the others.
package uploads
