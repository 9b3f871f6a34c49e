// Package reports registers the report schemas the generation pipeline
// produces and the typed views over their extracted values. Importing the
// package is enough to make every report schema available by name:
//
//	import _ "reportcrew/pkg/reports"
package reports

import "reportcrew/pkg/extract"

// decodeAs converts a generic extraction value into the typed report T.
func decodeAs[T any](res *extract.Result) (*T, error) {
	var out T
	if err := extract.DecodeValue(res.Value, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
