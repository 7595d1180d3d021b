//go:build integration

package pdf

import (
	"context"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrinter_Integration(t *testing.T) {
	execPath := os.Getenv("CHROME_PATH")
	if execPath == "" {
		for _, name := range []string{"google-chrome", "chromium", "chromium-browser"} {
			if path, err := exec.LookPath(name); err == nil {
				execPath = path
				break
			}
		}
	}
	if execPath == "" {
		t.Skip("Chrome not found, skipping integration test")
	}

	html := `<!DOCTYPE html><html><head><style>
@page { size: A4; margin: 0; }
.page { height: 297mm; break-after: page; }
.page:last-child { break-after: auto; }
</style></head><body><section class="page">one</section><section class="page">two</section></body></html>`

	p := NewPrinter(execPath, 30*time.Second, nil)
	data, err := p.Print(context.Background(), html)
	require.NoError(t, err)

	count, err := CountPages(data)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
