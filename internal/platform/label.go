package platform

import (
	"regexp"
	"strings"

	"github.com/modelget/model-installer/internal/model"
)

// labelPattern matches dialog labels of the form
// "<directory> / <filename.ext>". The filename must carry a dot-extension of
// letters/digits and contain no whitespace; the directory text is trimmed.
var labelPattern = regexp.MustCompile(`(?i)^\s*(.+?)\s*/\s*([^\s/]+\.[a-z0-9]+)\s*$`)

// ResolveLabel parses a free-text dialog label into a directory/filename
// pair. It returns ok=false when the label does not match the expected
// pattern; the caller must then fall back to identifying the item by URL.
func ResolveLabel(label string) (directory, filename string, ok bool) {
	m := labelPattern.FindStringSubmatch(label)
	if m == nil {
		return "", "", false
	}
	directory = strings.TrimSpace(m[1])
	filename = strings.TrimSpace(m[2])
	if directory == "" || filename == "" {
		return "", "", false
	}
	return directory, filename, true
}

// urlSegmentFolders maps known URL path segments to model directory names.
// Used as a directory hint when the dialog label did not resolve; the server
// stays authoritative for the final location.
var urlSegmentFolders = []struct {
	segment string
	folder  string
}{
	{"/vae/", "vae"},
	{"/checkpoints/", "checkpoints"},
	{"/loras/", "loras"},
	{"/clip_vision/", "clip_vision"},
	{"/text_encoders/", "text_encoders"},
	{"/unet/", "diffusion_models"},
	{"/diffusion_models/", "diffusion_models"},
	{"/upscale_models/", "upscale_models"},
	{"/controlnet/", "controlnet"},
}

// FolderFromURL infers a model directory name from well-known URL path
// segments. Returns "" when no segment matches.
func FolderFromURL(rawURL string) string {
	lowered := strings.ToLower(rawURL)
	for _, sf := range urlSegmentFolders {
		if strings.Contains(lowered, sf.segment) {
			return sf.folder
		}
	}
	return ""
}

// ResolveIdentity builds an item identity from a dialog label and source URL.
// When the label does not resolve, the directory falls back to URL segment
// inference and the filename stays empty.
func ResolveIdentity(label, rawURL string) model.Identity {
	directory, filename, ok := ResolveLabel(label)
	if !ok {
		return model.Identity{
			Directory: FolderFromURL(rawURL),
			URL:       rawURL,
		}
	}
	return model.Identity{
		Directory: directory,
		Filename:  filename,
		URL:       rawURL,
	}
}
