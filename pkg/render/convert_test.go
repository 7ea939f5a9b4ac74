package render

import (
	"bytes"
	"context"
	"testing"

	"github.com/matzehuels/emberview/pkg/errors"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in      string
		want    []Format
		wantErr bool
	}{
		{"", []Format{FormatSVG}, false},
		{"svg", []Format{FormatSVG}, false},
		{"svg, PNG,svg", []Format{FormatSVG, FormatPNG}, false},
		{"pdf,json", []Format{FormatPDF, FormatJSON}, false},
		{"gif", nil, true},
	}

	for _, tt := range tests {
		got, err := ParseFormats(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormats(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if len(got) != len(tt.want) {
			t.Errorf("ParseFormats(%q) = %v, want %v", tt.in, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("ParseFormats(%q)[%d] = %v, want %v", tt.in, i, got[i], tt.want[i])
			}
		}
	}
}

func TestConvertSVGPassthrough(t *testing.T) {
	in := []byte("<svg/>")
	out, err := Convert(context.Background(), in, FormatSVG, 1)
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if !bytes.Equal(in, out) {
		t.Errorf("Convert() = %q, want %q", out, in)
	}
}

func TestConvertJSONUnsupported(t *testing.T) {
	_, err := Convert(context.Background(), []byte("<svg/>"), FormatJSON, 1)
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("Convert(json) error = %v, want %s", err, errors.ErrCodeUnsupported)
	}
}

func TestToPNGWithoutRSVG(t *testing.T) {
	if Available() {
		t.Skip("rsvg-convert is installed")
	}
	_, err := ToPNG(context.Background(), []byte("<svg/>"), 2)
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("ToPNG() error = %v, want %s", err, errors.ErrCodeUnsupported)
	}
}

func TestFormatExt(t *testing.T) {
	if got := FormatPDF.Ext(); got != ".pdf" {
		t.Errorf("Ext() = %q, want .pdf", got)
	}
	if !FormatPNG.NeedsRSVG() || FormatSVG.NeedsRSVG() {
		t.Error("NeedsRSVG() mismatch")
	}
}
