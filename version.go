package strata

// Version is the current release of the strata module.
const Version = "0.3.0"
