package config

const (

	// Title represents the name of this tool.
	Title string = "Koral-TreeCompare"

	// Description represents a short description of this tool.
	Description string = "Compares expected and found attribute trees and reports per field accuracy."
)

// Version represents the SemVer of the tool.
var Version = "[unset]"

// Buildtime represents the timestamp of the build.
var Buildtime = "[unset]"

// Buildhash represents a unique hash of the build.
var Buildhash = "[unset]"
