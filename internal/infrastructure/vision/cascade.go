package vision

import "path/filepath"

// DefaultCascadeFile стандартный каскад OpenCV для фронтальных лиц
const DefaultCascadeFile = "haarcascade_frontalface_default.xml"

// CascadeCandidates возвращает пути, по которым ищется каскад: сначала
// указанный в конфиге, затем стандартные каталоги установки OpenCV.
func CascadeCandidates(path string) []string {
	name := DefaultCascadeFile
	if path != "" {
		name = filepath.Base(path)
	}

	candidates := make([]string, 0, 6)
	if path != "" {
		candidates = append(candidates, path)
	}
	return append(candidates,
		name,
		filepath.Join("/usr/local/share/opencv4/haarcascades", name),
		filepath.Join("/usr/share/opencv4/haarcascades", name),
		filepath.Join("/opt/homebrew/share/opencv4/haarcascades", name),
	)
}
