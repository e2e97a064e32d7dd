package pipeline

import (
	"errors"

	"github.com/bgraf/coordextract/coords"
	"github.com/bgraf/coordextract/export"
	"github.com/bgraf/coordextract/gpx"
	"github.com/bgraf/coordextract/mgrs"
)

// ErrorKind names a class of pipeline failure for the outer surfaces.
type ErrorKind struct {
	Name     string
	ExitCode int
	// Input is set for failures caused by the caller's data rather than by
	// the environment.
	Input bool
}

var (
	KindUnknown                = ErrorKind{Name: "Error", ExitCode: 1}
	KindEmptyDocument          = ErrorKind{Name: "EmptyDocument", ExitCode: 3, Input: true}
	KindMalformedXML           = ErrorKind{Name: "MalformedXml", ExitCode: 4, Input: true}
	KindInvalidCoordinateValue = ErrorKind{Name: "InvalidCoordinateValue", ExitCode: 5, Input: true}
	KindInvalidLatitude        = ErrorKind{Name: "InvalidLatitude", ExitCode: 6, Input: true}
	KindInvalidLongitude       = ErrorKind{Name: "InvalidLongitude", ExitCode: 6, Input: true}
	KindConversion             = ErrorKind{Name: "ConversionError", ExitCode: 7, Input: true}
	KindInvalidMGRS            = ErrorKind{Name: "InvalidMgrs", ExitCode: 8, Input: true}
	KindWrite                  = ErrorKind{Name: "WriteError", ExitCode: 9}
	KindUnsupportedFile        = ErrorKind{Name: "UnsupportedFile", ExitCode: 10, Input: true}
	KindOutputConflict         = ErrorKind{Name: "OutputConflict", ExitCode: 11, Input: true}
)

// Order matters: a conversion error may wrap a range error, and the
// conversion is the more specific report.
var kinds = []struct {
	err  error
	kind ErrorKind
}{
	{gpx.ErrEmptyDocument, KindEmptyDocument},
	{gpx.ErrMalformedXML, KindMalformedXML},
	{gpx.ErrInvalidCoordinateValue, KindInvalidCoordinateValue},
	{mgrs.ErrConversion, KindConversion},
	{coords.ErrInvalidLatitude, KindInvalidLatitude},
	{coords.ErrInvalidLongitude, KindInvalidLongitude},
	{coords.ErrInvalidMGRS, KindInvalidMGRS},
	{export.ErrWrite, KindWrite},
	{ErrUnsupportedFile, KindUnsupportedFile},
	{ErrOutputConflict, KindOutputConflict},
}

// Classify maps err to its kind. Errors joined by ConvertBatch classify by
// the first table entry any member matches.
func Classify(err error) ErrorKind {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindUnknown
}
