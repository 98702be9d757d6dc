package internal

// Version is the palabra release version.
const Version = "0.4.0"
