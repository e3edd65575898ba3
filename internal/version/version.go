package version

import "strconv"

const AppName = "cc69"

type Version struct {
	MajorNumber int64
	MinorNumber int64
	PatchNumber int64
}

// String generate a human readable Version
func (m *Version) String() string {
	return strconv.FormatInt(m.MajorNumber, 10) + "." + strconv.FormatInt(m.MinorNumber, 10) + "." + strconv.FormatInt(m.PatchNumber, 10)
}

// Title is the window title: application name and version.
func (m *Version) Title() string {
	return AppName + " " + m.String()
}

var (
	AppVersion = Version{
		MajorNumber: 0,
		MinorNumber: 9,
		PatchNumber: 1,
	}
)
