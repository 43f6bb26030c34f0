package questionnaire

import (
	"encoding/json"
	"os"

	"github.com/rs/zerolog"
)

// Catalog loads the screening question catalog from a JSON file.
// A missing or corrupt file is not an error: the pathway engine treats an
// empty catalog as "no contraindications can be flagged", which keeps demo
// deployments working before the catalog is provisioned.
type Catalog struct {
	path string
	log  zerolog.Logger
}

func NewCatalog(path string, log zerolog.Logger) *Catalog {
	return &Catalog{path: path, log: log}
}

// Load reads and parses the catalog file. Always returns a usable slice.
func (c *Catalog) Load() []Question {
	raw, err := os.ReadFile(c.path)
	if err != nil {
		c.log.Warn().Err(err).Str("path", c.path).Msg("question catalog unavailable, using empty catalog")
		return nil
	}
	var questions []Question
	if err := json.Unmarshal(raw, &questions); err != nil {
		c.log.Warn().Err(err).Str("path", c.path).Msg("question catalog malformed, using empty catalog")
		return nil
	}
	return questions
}
