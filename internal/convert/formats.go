package convert

import (
	"fmt"
	"io"
)

// Format is a family of inputs the converter understands
type Format struct {
	Name       string
	Extensions []string
}

func (f Format) String() string {
	if len(f.Extensions) == 0 {
		return f.Name
	}
	s := f.Name + " ("
	for i, ext := range f.Extensions {
		if i > 0 {
			s += ", "
		}
		s += ext
	}
	return s + ")"
}

var supportedFormats = []Format{
	{"PDF", []string{".pdf"}},
	{"Microsoft Word", []string{".docx", ".doc"}},
	{"Microsoft PowerPoint", []string{".pptx", ".ppt"}},
	{"Microsoft Excel", []string{".xlsx", ".xls"}},
	{"HTML", []string{".html", ".htm"}},
	{"Text", []string{".txt"}},
	{"CSV", []string{".csv"}},
	{"JSON", []string{".json"}},
	{"XML", []string{".xml"}},
	{"Images", []string{".jpg", ".png", ".gif"}},
	{"Audio", []string{".mp3", ".wav"}},
	{"ZIP", []string{".zip"}},
	{"EPub", []string{".epub"}},
	{"YouTube URL", nil},
}

// SupportedFormats returns the static list of accepted inputs
func SupportedFormats() []Format {
	out := make([]Format, len(supportedFormats))
	copy(out, supportedFormats)
	return out
}

// PrintSupportedFormats writes the format list to w
func PrintSupportedFormats(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "Supported formats:"); err != nil {
		return err
	}
	for _, f := range supportedFormats {
		if _, err := fmt.Fprintf(w, "- %s\n", f); err != nil {
			return err
		}
	}
	return nil
}
