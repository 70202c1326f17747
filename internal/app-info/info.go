package app_info

// NAME the name of this app
const NAME = "netsweep"

// VERSION current version of this app, overridden at build time
var VERSION = "v0.1.0"
