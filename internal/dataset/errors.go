package dataset

import "errors"

var (
	// ErrMissingFiles means one or both input files do not exist. No partial
	// load is attempted.
	ErrMissingFiles = errors.New("missing input files")

	// ErrNoNameColumn means the boundary file has no recognizable area name
	// attribute.
	ErrNoNameColumn = errors.New("no name column in boundary file")

	// ErrUnsupportedCRS means the boundary file declares a coordinate
	// reference system other than WGS84 or EPSG:25831.
	ErrUnsupportedCRS = errors.New("unsupported coordinate reference system")
)
