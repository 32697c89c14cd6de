// Package textsource loads scan input and keyword lists from files or stdin.
// Plain files are scanned as one document; FASTA files yield one document per
// record with sequence lines joined and the header dropped.
package textsource

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Format selects how an input is split into documents.
type Format string

const (
	FormatAuto  Format = "auto"
	FormatPlain Format = "plain"
	FormatFASTA Format = "fasta"
)

// Stdin is the path that selects standard input.
const Stdin = "-"

// fastaExts are the extensions FormatAuto treats as FASTA.
var fastaExts = map[string]bool{
	".fa":    true,
	".fas":   true,
	".fasta": true,
	".fna":   true,
	".ffn":   true,
	".faa":   true,
	".frn":   true,
}

// Document is one unit of text to scan.
type Document struct {
	Name string // file path, "path>header" for FASTA records, "-" for stdin
	Text string
}

// ParseFormat validates a format name. The empty string means auto.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case "", FormatAuto:
		return FormatAuto, nil
	case FormatPlain:
		return FormatPlain, nil
	case FormatFASTA:
		return FormatFASTA, nil
	}
	return "", errors.Errorf("unknown input format %q (want auto, plain or fasta)", s)
}

// DetectFormat resolves FormatAuto from the file extension.
func DetectFormat(path string) Format {
	if fastaExts[strings.ToLower(filepath.Ext(path))] {
		return FormatFASTA
	}
	return FormatPlain
}

// Load reads path ("-" for stdin) and splits it into documents.
func Load(path string, format Format) ([]Document, error) {
	if format == FormatAuto || format == "" {
		format = DetectFormat(path)
	}
	if path == Stdin {
		return Read(os.Stdin, Stdin, format)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open input")
	}
	defer f.Close()
	return Read(f, path, format)
}

// Read splits r into documents named after name.
func Read(r io.Reader, name string, format Format) ([]Document, error) {
	if format == FormatFASTA {
		return readFASTA(r, name)
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", name)
	}
	return []Document{{Name: name, Text: string(b)}}, nil
}

// readFASTA joins the sequence lines of each record. Lines starting with ';'
// are comments. Sequence before the first header forms an unnamed record.
func readFASTA(r io.Reader, name string) ([]Document, error) {
	var docs []Document
	var seq strings.Builder
	header := ""
	started := false

	flush := func() {
		if !started {
			return
		}
		docName := name
		if header != "" {
			docName = name + ">" + header
		}
		docs = append(docs, Document{Name: docName, Text: seq.String()})
		seq.Reset()
	}

	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, errors.Wrapf(err, "read %s", name)
		}
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, ">"):
			flush()
			header = strings.TrimSpace(line[1:])
			started = true
		case line == "", strings.HasPrefix(line, ";"):
		default:
			started = true
			seq.WriteString(line)
		}
		if err == io.EOF {
			break
		}
	}
	flush()
	return docs, nil
}

// ReadPatterns reads one keyword per line. Trailing carriage returns are
// stripped and blank lines skipped; other whitespace is part of the keyword.
func ReadPatterns(r io.Reader) ([]string, error) {
	var patterns []string
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, errors.Wrap(err, "read patterns")
		}
		line = strings.TrimRight(line, "\r\n")
		if line != "" {
			patterns = append(patterns, line)
		}
		if err == io.EOF {
			return patterns, nil
		}
	}
}

// LoadPatterns reads a keyword file ("-" for stdin).
func LoadPatterns(path string) ([]string, error) {
	if path == Stdin {
		return ReadPatterns(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open pattern file")
	}
	defer f.Close()
	return ReadPatterns(f)
}
