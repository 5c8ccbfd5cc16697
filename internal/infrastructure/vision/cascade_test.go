package vision

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCascadeCandidates(t *testing.T) {
	got := CascadeCandidates("./models/custom.xml")
	require.Equal(t, "./models/custom.xml", got[0])
	require.Equal(t, "custom.xml", got[1])
	require.Contains(t, got, "/usr/share/opencv4/haarcascades/custom.xml")

	def := CascadeCandidates("")
	require.Equal(t, DefaultCascadeFile, def[0])
}
