package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// minimalPDF builds a valid PDF with the given number of blank A4 pages
func minimalPDF(pages int) []byte {
	var objects []string
	kids := make([]string, pages)
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", i+3)
	}
	objects = append(objects,
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), pages),
	)
	for range pages {
		objects = append(objects, "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] >>")
	}

	var b bytes.Buffer
	b.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = b.Len()
		fmt.Fprintf(&b, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n", len(objects)+1)
	b.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&b, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return b.Bytes()
}

func TestCountPages(t *testing.T) {
	for _, n := range []int{1, 3} {
		t.Run(fmt.Sprintf("%d pages", n), func(t *testing.T) {
			count, err := CountPages(minimalPDF(n))
			require.NoError(t, err)
			assert.Equal(t, n, count)
		})
	}
}

func TestCountPages_NotAPDF(t *testing.T) {
	_, err := CountPages([]byte(strings.Repeat("this is plain text, not a pdf document\n", 5)))
	assert.Error(t, err)
}

func TestNewPrinter_Defaults(t *testing.T) {
	p := NewPrinter("", 0, nil)
	assert.Equal(t, DefaultTimeout, p.Timeout)
	assert.NotNil(t, p.Logger)
}
