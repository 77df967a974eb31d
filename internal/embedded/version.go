package embedded

// DefaultVersion is the version reported when FIELDMARK_VERSION is not
// set, e.g. in from-source builds.
const DefaultVersion = "v0.1.0"
