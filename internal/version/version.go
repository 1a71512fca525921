package version

// Version is the current tanuki release.
const Version = "1.0.0"
