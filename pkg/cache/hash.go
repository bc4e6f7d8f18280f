package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// hashKey builds prefix:sha256(json(parts)).
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// RenderSettings are the inputs besides the document that change a rendered
// figure.
type RenderSettings struct {
	Format string
	Scale  float64
	// PanelWidth and PanelHeight are the inches each panel adds to the
	// figure size.
	PanelWidth, PanelHeight float64
}

// ArtifactKey is the key of a document rendered with s. The format is
// case-insensitive and may carry a leading dot.
func ArtifactKey(docHash string, s RenderSettings) string {
	format := strings.ToLower(strings.TrimPrefix(s.Format, "."))
	return hashKey("artifact", docHash, format, s.Scale, s.PanelWidth, s.PanelHeight)
}
