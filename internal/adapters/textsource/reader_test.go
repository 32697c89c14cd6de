package textsource

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const genome = `>mg chromosome 1
AACGTT
CA
; comment line

>mg plasmid
GGCC
`

func TestReadFASTA_Records(t *testing.T) {
	docs, err := Read(strings.NewReader(genome), "mg.fasta", FormatFASTA)
	require.NoError(t, err)
	assert.Equal(t, []Document{
		{Name: "mg.fasta>mg chromosome 1", Text: "AACGTTCA"},
		{Name: "mg.fasta>mg plasmid", Text: "GGCC"},
	}, docs)
}

func TestReadFASTA_NoHeaderNoTrailingNewline(t *testing.T) {
	docs, err := Read(strings.NewReader("ACGT\r\nTTGA"), "raw", FormatFASTA)
	require.NoError(t, err)
	assert.Equal(t, []Document{{Name: "raw", Text: "ACGTTTGA"}}, docs)
}

func TestReadFASTA_Empty(t *testing.T) {
	docs, err := Read(strings.NewReader(""), "empty", FormatFASTA)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestReadPlain_KeepsEverything(t *testing.T) {
	docs, err := Read(strings.NewReader(genome), "notes.txt", FormatPlain)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, genome, docs[0].Text)
}

func TestLoad_DetectsFormat(t *testing.T) {
	dir := t.TempDir()
	fasta := filepath.Join(dir, "mgGenome.FASTA")
	require.NoError(t, os.WriteFile(fasta, []byte(genome), 0644))

	docs, err := Load(fasta, FormatAuto)
	require.NoError(t, err)
	assert.Len(t, docs, 2)

	docs, err = Load(fasta, FormatPlain)
	require.NoError(t, err)
	assert.Len(t, docs, 1)

	_, err = Load(filepath.Join(dir, "missing.txt"), FormatAuto)
	assert.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatAuto, "auto": FormatAuto, "PLAIN": FormatPlain, "fasta": FormatFASTA} {
		got, err := ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("fastq")
	assert.Error(t, err)
}

func TestReadPatterns(t *testing.T) {
	patterns, err := ReadPatterns(strings.NewReader("he\r\nshe\n\n her \nhers"))
	require.NoError(t, err)
	assert.Equal(t, []string{"he", "she", " her ", "hers"}, patterns)
}

func TestLoadPatterns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.txt")
	require.NoError(t, os.WriteFile(path, []byte("alpha\nbeta\n"), 0644))

	patterns, err := LoadPatterns(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta"}, patterns)
}
