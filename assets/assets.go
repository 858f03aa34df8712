// Package assets bundles the parking dataset and the viewer page.
package assets

import _ "embed"

// DatasetName is the file name of the bundled dataset.
const DatasetName = "Parkomaty_point_geojson.json"

// Dataset is the bundled parking locations document.
//
//go:embed Parkomaty_point_geojson.json
var Dataset []byte

// IndexTemplate is the viewer page template.
//
//go:embed index.html.tpl
var IndexTemplate string
