package coverpdf

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

var disableConfigDir sync.Once

// pdfConfig returns a pdfcpu configuration that never touches the user's
// config directory and tolerates the small defects common in scanner output.
func pdfConfig() *model.Configuration {
	disableConfigDir.Do(api.DisableConfigDir)
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// PageCount reads and validates a PDF and returns its number of pages.
func PageCount(content []byte) (int, error) {
	if len(content) == 0 {
		return 0, ErrEmptyContent
	}
	n, err := api.PageCount(bytes.NewReader(content), pdfConfig())
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPDFLoad, err)
	}
	if n == 0 {
		return 0, ErrEmptyDocument
	}
	return n, nil
}

// segment is one self-contained PDF contributing pages to the output.
// file is the index into the upload list, or -1 for the cover.
type segment struct {
	file  int
	pages int
	data  []byte
}

// mergeSegments concatenates segments in order. If the batch merge fails,
// segments are appended one at a time and any that cannot be merged are
// dropped and returned.
func mergeSegments(segs []segment) (out []byte, dropped []segment, err error) {
	if len(segs) == 0 {
		return nil, nil, fmt.Errorf("%w: nothing to merge", ErrAssembly)
	}
	if len(segs) == 1 {
		return segs[0].data, nil, nil
	}

	all := make([][]byte, len(segs))
	for i, s := range segs {
		all[i] = s.data
	}
	if out, err := mergeRaw(all...); err == nil {
		return out, nil, nil
	}

	acc := segs[0].data
	for _, s := range segs[1:] {
		next, err := mergeRaw(acc, s.data)
		if err != nil {
			dropped = append(dropped, s)
			continue
		}
		acc = next
	}
	return acc, dropped, nil
}

func mergeRaw(docs ...[]byte) ([]byte, error) {
	rsc := make([]io.ReadSeeker, len(docs))
	for i, d := range docs {
		rsc[i] = bytes.NewReader(d)
	}
	var buf bytes.Buffer
	if err := api.MergeRaw(rsc, &buf, false, pdfConfig()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
