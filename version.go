package policytree

// Version is the release of the library and CLI.
const Version = "0.3.1"
