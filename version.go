package keytap

// Version is the release version, also reported by clients during the
// daemon handshake.
const Version = "0.3.0"
