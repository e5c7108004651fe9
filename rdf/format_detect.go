package rdf

import (
	"bytes"
	"io"
	"strings"
)

const formatDetectionBufferSize = 512

// DetectFormat attempts to detect the RDF format from the first bytes of r.
// It returns the detected format and a reader that replays the sampled bytes
// so the decoder can read from the beginning.
func DetectFormat(r io.Reader) (Format, io.Reader, bool) {
	buf := make([]byte, formatDetectionBufferSize)
	n, err := io.ReadFull(r, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return FormatAuto, r, false
	}
	sample := buf[:n]
	replay := io.MultiReader(bytes.NewReader(sample), r)
	format, ok := DetectFormatSample(string(sample))
	return format, replay, ok
}

// DetectFormatSample classifies a sample of input text.
func DetectFormatSample(sample string) (Format, bool) {
	sample = strings.TrimSpace(sample)
	if sample == "" {
		return FormatAuto, false
	}

	// JSON-LD starts with an object or array
	if sample[0] == '{' || sample[0] == '[' {
		return FormatJSONLD, true
	}

	sawStatement := false
	for _, line := range strings.Split(sample, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !strings.HasPrefix(line, "<") && !strings.HasPrefix(line, "_:") {
			return FormatAuto, false
		}
		quad, err := parseNTLine(line, FormatNQuads)
		if err != nil {
			// The sample may end mid-statement; the first line decides.
			if sawStatement {
				break
			}
			return FormatAuto, false
		}
		if quad.G != nil {
			return FormatNQuads, true
		}
		sawStatement = true
	}
	if sawStatement {
		return FormatNTriples, true
	}
	return FormatAuto, false
}
