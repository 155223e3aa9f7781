package version

import "fmt"

// Name is the program name shown in the about box and the window title.
const Name = "auditor"

var (
	// Version is set via ldflags at build time.
	Version = "0.1.0"
	// Commit is the VCS revision, set via ldflags.
	Commit = ""
	// Date is the build timestamp in RFC3339, set via ldflags.
	Date = ""
)

func String() string {
	s := Version
	if Commit != "" {
		s += "+" + Commit
	}
	if Date != "" {
		s += " (" + Date + ")"
	}
	return s
}

// Banner is the one-line identification used by the about box.
func Banner() string {
	return fmt.Sprintf("%s %s", Name, String())
}
