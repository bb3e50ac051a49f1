// Package source makes go-json the process-wide JSON driver when imported.
package source

import (
	"github.com/reoring/jadn"
	drvgojson "github.com/reoring/jadn/source/gojson"
)

// init in a separate package to avoid an import cycle in root.
func init() { jadn.SetJSONDriver(drvgojson.Driver()) }
