package gopsr

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsartiming/gopsr/internal/testutil"
	"github.com/pulsartiming/gopsr/par"
	"github.com/pulsartiming/gopsr/psrerr"
	"github.com/pulsartiming/gopsr/tim"
)

func archives(toas []tim.TOAInfo) []string {
	out := make([]string, len(toas))
	for i, x := range toas {
		out[i] = x.File
	}
	return out
}

func TestReadParFile(t *testing.T) {
	pf, err := ReadParFile("testdata/par/J1713+0747.par")
	require.NoError(t, err)

	assert.Equal(t, "J1713+0747", pf.Name())
	assert.Equal(t, par.BinaryModelDD, pf.BinaryModel)
	assert.Equal(t, par.UnitsTDB, pf.Units)
	assert.Equal(t, par.TimeEphemerisFB90, pf.TimeEphemeris)
	assert.Len(t, pf.Jumps, 3)

	ra := pf.RA.Value()
	assert.True(t, ra.Fit)
	assert.Equal(t, int8(17), ra.Value.Major())

	f0, ok := pf.Lookup("F0")
	require.True(t, ok)
	assert.Equal(t, 218.81184381090227, f0.Value().Value)
	assert.Equal(t, 1.2e-15, f0.Value().Uncertainty)

	ntoa, ok := findInteger(pf, "NTOA")
	require.True(t, ok)
	assert.Equal(t, uint32(27000), ntoa)
}

func findInteger(pf *par.Parfile, name string) (uint32, bool) {
	for _, p := range pf.Integers {
		if p.Name() == name {
			return p.Value(), true
		}
	}
	return 0, false
}

func TestReadParFileGlitches(t *testing.T) {
	pf, err := ReadParFile("B0531+21.par", WithSource(MustDir("testdata/par")))
	require.NoError(t, err)
	require.Len(t, pf.Glitches, 2)
	assert.Equal(t, 1, pf.Glitches[0].Index)
	assert.Equal(t, 50260.031, pf.Glitches[0].Epoch)
	assert.Equal(t, 0.1, pf.Glitches[1].Phase)
}

func TestReadParFileMissing(t *testing.T) {
	_, err := ReadParFile("testdata/par/nope.par")
	testutil.RequireKind(t, err, psrerr.KindIO)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestReadParFileAttachesName(t *testing.T) {
	src := FS(fstest.MapFS{
		"bad.par": &fstest.MapFile{Data: []byte(testutil.MinimalPar + "WIBBLE 1\n")},
	})

	_, err := ReadParFile("bad.par", WithSource(src))
	testutil.RequireKind(t, err, psrerr.KindUnrecognisedKey)
	assert.Equal(t, psrerr.TimContext{File: "bad.par", Line: 7}, testutil.ContextOf(err))

	pf, err := ReadParFile("bad.par", WithSource(src), WithStrictness(par.Permissive))
	require.NoError(t, err)
	assert.Equal(t, "J0000-9999", pf.Name())
}

func TestReadParAndWritePar(t *testing.T) {
	pf, err := ReadParFile("testdata/par/J1713+0747.par")
	require.NoError(t, err)

	var first bytes.Buffer
	require.NoError(t, WritePar(&first, pf))

	again, err := ReadPar(bytes.NewReader(first.Bytes()))
	require.NoError(t, err)

	var second bytes.Buffer
	require.NoError(t, WritePar(&second, again))
	if diff := cmp.Diff(first.String(), second.String()); diff != "" {
		t.Errorf("write is not idempotent (-first +second):\n%s", diff)
	}
	assert.Contains(t, first.String(), "PSR ")
	assert.NotContains(t, first.String(), "PSRJ")
}

func TestWriteParRefusesInvalid(t *testing.T) {
	pf := par.New()
	var buf bytes.Buffer
	err := WritePar(&buf, pf)
	testutil.RequireKinds(t, err, psrerr.KindNoName, psrerr.KindNoFrequency, psrerr.KindNoPEpoch, psrerr.KindNoDispersion)
	assert.Zero(t, buf.Len())
}

func TestReadTimFile(t *testing.T) {
	toas, err := ReadTimFile(context.Background(), "testdata/tim/J1713+0747.tim")
	require.NoError(t, err)

	want := []string{
		"guppi_55000_J1713+0747_0001.ar",
		"guppi_55000_J1713+0747_0002.ar",
		"guppi_55000_J1713+0747_0003.ar",
		"asp_53216_1713.ar",
		"asp_53217_1713.ar",
	}
	if diff := cmp.Diff(want, archives(toas)); diff != "" {
		t.Errorf("TOA order mismatch (-want +got):\n%s", diff)
	}

	assert.True(t, toas[2].IsBad)
	assert.Equal(t, "#rfi", toas[2].Comment)
	assert.Equal(t, "bad -- calibration", toas[4].Comment)
	assert.Equal(t, filepath.FromSlash("testdata/tim/asp/ASP.tim"), toas[4].Origin.File)
	assert.Equal(t, 3, toas[4].Origin.Line)

	bw, ok := toas[0].Flags["bw"].Float()
	assert.True(t, ok)
	assert.Equal(t, 12.5, bw)
}

func TestReadTimFileRootedSource(t *testing.T) {
	toas, err := ReadTimFile(context.Background(), "J1713+0747.tim", WithSource(MustDir("testdata/tim")))
	require.NoError(t, err)
	require.Len(t, toas, 5)
	assert.Equal(t, filepath.FromSlash("guppi/L-wide.tim"), toas[0].Origin.File)
}

func TestReadTimFileErrors(t *testing.T) {
	tests := []struct {
		name string
		file string
		opts []Option
		kind psrerr.Kind
		at   psrerr.TimContext
	}{
		{
			name: "include cycle",
			file: "broken/loop.tim",
			kind: psrerr.KindIncludeCycle,
			at:   psrerr.TimContext{File: "broken/loop.tim", Line: 3},
		},
		{
			name: "unvalued flag",
			file: "broken/unvalued.tim",
			kind: psrerr.KindTimUnvaluedFlag,
			at:   psrerr.TimContext{File: "broken/unvalued.tim", Line: 2},
		},
		{
			name: "format declared under parkes",
			file: "J1713+0747.tim",
			opts: []Option{WithFormat(tim.Parkes)},
			kind: psrerr.KindTimFormatDiscrepancy,
			at:   psrerr.TimContext{File: "J1713+0747.tim", Line: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := append([]Option{WithSource(MustDir("testdata/tim"))}, tt.opts...)
			_, err := ReadTimFile(context.Background(), tt.file, opts...)
			testutil.RequireKind(t, err, tt.kind)
			assert.Equal(t, tt.at, testutil.ContextOf(err))
		})
	}
}

func TestReadTimStrictFlags(t *testing.T) {
	line := testutil.MinimalTOA + " -be ASP -be GUPPI\n"

	toas, err := ReadTim(context.Background(), "", strings.NewReader(line))
	require.NoError(t, err)
	assert.Equal(t, "GUPPI", toas[0].Flags["be"].String())

	_, err = ReadTim(context.Background(), "", strings.NewReader(line), WithStrictFlags())
	testutil.RequireKind(t, err, psrerr.KindTimDuplicateFlag)
}

func TestReadTimFiles(t *testing.T) {
	src := MustDir("testdata/tim")
	names := []string{"asp/ASP.tim", "J1713+0747.tim", "guppi/L-wide.tim"}

	results, err := ReadTimFiles(context.Background(), names, WithSource(src), WithConcurrency(2))
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Len(t, results[0], 2)
	assert.Len(t, results[1], 5)
	assert.Len(t, results[2], 3)
	assert.Equal(t, archives(results[0]), archives(results[1])[3:])
}

func TestReadTimFilesFirstErrorWins(t *testing.T) {
	names := []string{"guppi/L-wide.tim", "broken/loop.tim", "asp/ASP.tim"}
	_, err := ReadTimFiles(context.Background(), names, WithSource(MustDir("testdata/tim")), WithConcurrency(1))
	testutil.RequireKind(t, err, psrerr.KindIncludeCycle)
}

func TestReadTimFilesEmpty(t *testing.T) {
	_, err := ReadTimFiles(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoFiles)
}

func TestReadTimFilesCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ReadTimFiles(ctx, []string{"testdata/tim/asp/ASP.tim"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReadTimFilesFromListing(t *testing.T) {
	src := MustDirTree("testdata/tim")
	names, err := src.ListFiles()
	require.NoError(t, err)

	var clean []string
	for _, n := range names {
		if !strings.HasPrefix(filepath.ToSlash(n), "broken/") {
			clean = append(clean, n)
		}
	}
	results, err := ReadTimFiles(context.Background(), clean, WithSource(src))
	require.NoError(t, err)

	total := 0
	for _, r := range results {
		total += len(r)
	}
	assert.Equal(t, 10, total)
}

func TestComponentLogging(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: LevelTrace}))

	_, err := ReadParFile("testdata/par/B0531+21.par", WithLogger(logger))
	require.NoError(t, err)
	_, err = ReadTimFiles(context.Background(), []string{"testdata/tim/asp/ASP.tim"}, WithLogger(logger))
	require.NoError(t, err)

	out := logs.String()
	assert.Contains(t, out, "reading par file")
	assert.Contains(t, out, "component=par")
	assert.Contains(t, out, "classified line")
	assert.Contains(t, out, "component=tim")
	assert.Contains(t, out, "parsed TOA")
	assert.Contains(t, out, "parallel read complete")
}

func TestOptionDefaults(t *testing.T) {
	cfg := newConfig(nil)
	assert.Equal(t, tim.DefaultMaxIncludeDepth, cfg.maxDepth)
	assert.Positive(t, cfg.concurrency)
	assert.NotNil(t, cfg.source)

	cfg = newConfig([]Option{WithConcurrency(0), WithMaxIncludeDepth(-1), WithSource(nil)})
	assert.Equal(t, tim.DefaultMaxIncludeDepth, cfg.maxDepth)
	assert.Positive(t, cfg.concurrency)
	assert.NotNil(t, cfg.source)

	r := newConfig([]Option{WithFormat(tim.Parkes), WithStrictFlags(), WithMaxIncludeDepth(3)}).timReader(OS())
	assert.Equal(t, tim.Parkes, r.Format)
	assert.True(t, r.StrictFlags)
	assert.Equal(t, 3, r.MaxIncludeDepth)
	assert.Nil(t, r.Logger)
}
