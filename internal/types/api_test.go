package types

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGoToRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		step    int
		wantErr bool
	}{
		{name: "first", step: 1},
		{name: "last", step: 6},
		{name: "zero", step: 0, wantErr: true},
		{name: "past end", step: 7, wantErr: true},
		{name: "negative", step: -1, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := (&GoToRequest{Step: tt.step}).Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSummarizeRequest_Validate(t *testing.T) {
	assert.NoError(t, (&SummarizeRequest{Text: "Led the platform team."}).Validate())
	assert.Error(t, (&SummarizeRequest{}).Validate())
	assert.Error(t, (&SummarizeRequest{Text: strings.Repeat("a", 20001)}).Validate())
}

func TestExportRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     ExportRequest
		wantErr bool
	}{
		{name: "format only", req: ExportRequest{Format: "pdf"}},
		{name: "with template", req: ExportRequest{Format: "html", Template: "elegant"}},
		{name: "missing format", req: ExportRequest{Template: "modern"}, wantErr: true},
		{name: "odd format", req: ExportRequest{Format: "../etc"}, wantErr: true},
		{name: "unknown template", req: ExportRequest{Format: "text", Template: "fancy"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
