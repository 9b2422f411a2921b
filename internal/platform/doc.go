// Package platform contains OS integration: application and download
// folders, locating finished downloads, and revealing or opening files.
package platform
