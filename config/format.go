package config

type FormatVersion uint32

// Scene file format revisions understood by the graph loader.
const (
	FormatUnknown FormatVersion = iota
	FormatV1
)

// CurrentFormat is written by every save.
const CurrentFormat = FormatV1

func (v FormatVersion) Supported() bool {
	return v == FormatV1
}
