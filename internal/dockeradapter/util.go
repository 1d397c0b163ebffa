package dockeradapter

import (
	"encoding/json"
	"io"

	"github.com/docker/docker/api/types/filters"
)

// filtersWithField builds a filters.Args with a single key=value entry, used
// by the node/task listing helpers.
func filtersWithField(key, value string) filters.Args {
	f := filters.NewArgs()
	f.Add(key, value)
	return f
}

// decodeJSON is a small convenience wrapper shared by operations that read a
// raw JSON body from the Docker Engine API into a generic map for passthrough
// rendering (e.g. stats snapshots, whose exact shape is documented by Docker
// itself and not worth re-typing field-by-field here).
func decodeJSON(r io.Reader, out any) error {
	dec := json.NewDecoder(r)
	return dec.Decode(out)
}
