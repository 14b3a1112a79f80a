// Package capefile reads curve data exported by the CAPE protection suite.
//
// Fuse and recloser exports list one "<current> <time>" pair per indented line.
// Breaker exports number their data lines: "<n> <current> <time>". Any line
// mentioning cycles or seconds fixes the time unit; the first mention wins.
package capefile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/sgostarter/librecloser/curve"
	"github.com/spf13/cast"
)

var ErrBadData = errors.New("bad data")

func Parse(name string, kind curve.DeviceKind, r io.Reader) (raw curve.RawCurve, err error) {
	raw = curve.RawCurve{
		Name: name,
		Kind: kind,
		Unit: curve.UnitCycles,
	}

	unitFixed := false

	scanner := bufio.NewScanner(r)

	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := scanner.Text()

		if !unitFixed {
			lower := strings.ToLower(line)

			if strings.Contains(lower, "cycle") {
				unitFixed = true
			} else if strings.Contains(lower, "second") {
				raw.Unit = curve.UnitSeconds
				unitFixed = true
			}
		}

		fields, ok := dataFields(kind, line)
		if !ok {
			continue
		}

		var p curve.Point

		p, err = parsePoint(fields)
		if err != nil {
			err = fmt.Errorf("%s:%d: %w", name, lineNo, err)

			return
		}

		raw.Points = append(raw.Points, p)
	}

	err = scanner.Err()

	return
}

func dataFields(kind curve.DeviceKind, line string) ([]string, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, false
	}

	if kind == curve.DeviceKindBreaker {
		if _, err := strconv.ParseUint(fields[0], 10, 64); err != nil {
			return nil, false
		}

		return fields[1:], true
	}

	if !unicode.IsSpace(rune(line[0])) {
		return nil, false
	}

	return fields, true
}

func parsePoint(fields []string) (p curve.Point, err error) {
	if len(fields) < 2 {
		err = fmt.Errorf("%w: want current and time, got %q", ErrBadData, strings.Join(fields, " "))

		return
	}

	p.Current, err = cast.ToFloat64E(fields[0])
	if err != nil {
		err = fmt.Errorf("%w: current %q", ErrBadData, fields[0])

		return
	}

	p.Time, err = cast.ToFloat64E(fields[1])
	if err != nil {
		err = fmt.Errorf("%w: time %q", ErrBadData, fields[1])
	}

	return
}
