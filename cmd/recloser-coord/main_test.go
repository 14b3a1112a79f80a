package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sgostarter/libeasygo/pathutils"
	"github.com/sgostarter/librecloser/library"
	"github.com/sgostarter/librecloser/resolver"
	"github.com/sgostarter/librecloser/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func utWrite(t *testing.T, root, dir, name, content string) {
	_ = pathutils.MustDirExists(filepath.Join(root, dir))

	require.Nil(t, os.WriteFile(filepath.Join(root, dir, name), []byte(content), 0600))
}

func setupUTLibrary(t *testing.T) string {
	root := t.TempDir()

	utWrite(t, root, library.FuseDir, "T65", "cycles\n   100   20.5\n   1000   2.05\n   10000   0.205\n")
	utWrite(t, root, library.BreakerDir, "FDR1", "cycles\n 1 100 100.5\n 2 1000 10.05\n 3 10000 1.005\n")
	utWrite(t, root, library.RecloserDir, "A_FAST", "cycles\n   1   20\n   10   2\n   100   0.2\n")
	utWrite(t, root, library.RecloserDir, "B_TOO_FAST", "cycles\n   1   5\n   10   0.5\n   100   0.05\n")
	utWrite(t, root, library.RecloserDir, "C_FAST", "cycles\n   1   20\n   10   2\n   100   0.2\n")
	utWrite(t, root, library.RecloserDir, "D_FAST", "cycles\n   1   20\n   10   2\n   100   0.2\n")

	return root
}

func execute(t *testing.T, args ...string) (string, error) {
	var out bytes.Buffer

	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(args)

	err := cmd.Execute()

	return out.String(), err
}

func TestRootRegistersCommands(t *testing.T) {
	cmd := newRootCmd()

	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}

	assert.Subset(t, names, []string{"list", "run", "history"})
	assert.EqualValues(t, version, cmd.Version)
}

func TestList(t *testing.T) {
	out, err := execute(t, "list", "--library", setupUTLibrary(t))
	assert.Nil(t, err)

	assert.Contains(t, out, "Available Breaker Curves:")
	assert.Contains(t, out, "[b00] FDR1")
	assert.Contains(t, out, "[f00] T65")

	var recloserRows []string

	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "[r") {
			recloserRows = append(recloserRows, line)
		}
	}

	require.Len(t, recloserRows, 2)
	assert.EqualValues(t, 3, strings.Count(recloserRows[0], "[r"))
	assert.True(t, strings.HasPrefix(recloserRows[1], "[r03] D_FAST"))
}

func TestRunAndHistory(t *testing.T) {
	root := setupUTLibrary(t)
	work := t.TempDir()
	output := filepath.Join(work, "solutions.txt")

	t.Setenv("RECLOSER_STORAGE_DIR", filepath.Join(work, "reports"))

	out, err := execute(t, "run", "--library", root, "--downstream", "f00", "--upstream", "b00",
		"--pickup-min", "100", "--pickup-max", "500", "--coord-max", "1000", "--min-time", "2",
		"--workers", "2", "--output", output, "--store", "file")
	assert.Nil(t, err)

	assert.Contains(t, out, "Possible Curve Settings:")
	assert.Contains(t, out, "Curve: A_FAST\nPickup Min (A): 205\nPickup Max (A): 400\n")
	assert.NotContains(t, out, "B_TOO_FAST")
	assert.Contains(t, out, "stored")

	d, err := os.ReadFile(output)
	assert.Nil(t, err)
	assert.True(t, strings.HasPrefix(string(d), "========================\nPossible Curve Settings:\n"))
	assert.Contains(t, string(d), "Curve: D_FAST\nPickup Min (A): 205\nPickup Max (A): 400\n")

	out, err = execute(t, "history")
	assert.Nil(t, err)
	assert.Contains(t, out, "down f00 (T65)  up b00 (FDR1)  3 range(s)")
}

func TestRunBadParams(t *testing.T) {
	_, err := execute(t, "run", "--library", setupUTLibrary(t), "--downstream", "f00", "--upstream", "b00",
		"--pickup-min", "500", "--pickup-max", "100", "--coord-max", "1000")
	assert.True(t, errors.Is(err, search.ErrConfiguration))
}

func TestRunInteractive(t *testing.T) {
	cfg := Config{
		Library:     setupUTLibrary(t),
		Interactive: true,
		Workers:     1,
	}

	in := strings.NewReader("f09\nf00\nb00\n100\n50\n500\n1000\n2\n")

	var out bytes.Buffer

	err := runCoordination(context.Background(), in, &out, cfg)
	assert.Nil(t, err)

	assert.Contains(t, out.String(), "[r00] A_FAST")
	assert.Contains(t, out.String(), "!! Please enter a valid curve name, such as f14 or r02")
	assert.Contains(t, out.String(), "!! Please enter a valid amperage greater than 100A")
	assert.Contains(t, out.String(), "Curve: C_FAST\nPickup Min (A): 205\nPickup Max (A): 400\n")
}

func TestRunInteractiveAborted(t *testing.T) {
	cfg := Config{
		Library:     setupUTLibrary(t),
		Interactive: true,
	}

	err := runCoordination(context.Background(), strings.NewReader("f00\n"), &bytes.Buffer{}, cfg)
	assert.True(t, errors.Is(err, resolver.ErrAborted))
}

func TestRunTrace(t *testing.T) {
	out, err := execute(t, "run", "--library", setupUTLibrary(t), "--downstream", "f00", "--upstream", "b00",
		"--pickup-min", "100", "--pickup-max", "500", "--coord-max", "1000", "--min-time", "2", "--trace")
	assert.Nil(t, err)

	assert.Contains(t, out, "coord time")
	assert.Contains(t, out, "coordTime:")
	assert.Contains(t, out, "curve data")
	assert.Contains(t, out, "Possible Curve Settings:")
}

func TestRunTraceFile(t *testing.T) {
	traceFile := filepath.Join(t.TempDir(), "logs", "trace.log")

	out, err := execute(t, "run", "--library", setupUTLibrary(t), "--downstream", "f00", "--upstream", "b00",
		"--pickup-min", "100", "--pickup-max", "500", "--coord-max", "1000", "--min-time", "2",
		"--trace-file", traceFile)
	assert.Nil(t, err)
	assert.NotContains(t, out, "coord time")

	d, err := os.ReadFile(traceFile)
	require.Nil(t, err)
	assert.Contains(t, string(d), "coord time")
	assert.Contains(t, string(d), "curve data")
}

func TestRunInteractiveKeepsExplicitZero(t *testing.T) {
	cfg := Config{
		Library:     setupUTLibrary(t),
		Interactive: true,
		Workers:     1,
		Params: search.Params{
			PickupMax:    500,
			CoordMaxAmps: 1000,
		},
		set: map[string]bool{keyPickupMin: true, keyMinTime: true},
	}

	var out bytes.Buffer

	err := runCoordination(context.Background(), strings.NewReader("f00\nb00\n"), &out, cfg)
	assert.Nil(t, err)

	assert.NotContains(t, out.String(), "Enter minimum pickup current")
	assert.NotContains(t, out.String(), "Enter minimum coordination time")
	assert.Contains(t, out.String(), "Possible Curve Settings:")
}

func TestLoadConfigTracksExplicitZero(t *testing.T) {
	cmd := newRunCmd()
	require.Nil(t, cmd.ParseFlags([]string{"--pickup-min", "0"}))

	root := t.TempDir()
	utWrite(t, root, "", "recloser.yaml", "pickup-max: 500\n")

	cfg, err := loadConfig(cmd, filepath.Join(root, "recloser.yaml"))
	require.Nil(t, err)

	assert.True(t, cfg.provided(keyPickupMin, cfg.PickupMin))
	assert.True(t, cfg.provided(keyPickupMax, cfg.PickupMax))
	assert.False(t, cfg.provided(keyMinTime, cfg.MinCoordTime))
}
