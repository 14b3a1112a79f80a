// Package library serves curve files kept on disk in one folder per device kind.
package library

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/sgostarter/i/l"
	"github.com/sgostarter/librecloser/curve"
	"github.com/sgostarter/librecloser/curve/capefile"
	"gopkg.in/yaml.v3"
)

var (
	ErrBadSelection = errors.New("bad selection")
	ErrBadYAML      = errors.New("bad yaml curve")
)

const (
	BreakerDir  = "breakerCurves"
	FuseDir     = "fuseCurves"
	RecloserDir = "recloserCurves"

	defaultCacheDuration = 10 * time.Minute
)

var selectionRe = regexp.MustCompile(`^[bfr]\d{2}$`)

type Entry struct {
	Kind  curve.DeviceKind
	Index int
	Name  string
	Path  string
}

// Code is the selection code of the entry, e.g. f14.
func (e Entry) Code() string {
	return fmt.Sprintf("%c%02d", e.Kind.Code(), e.Index)
}

type Library struct {
	logger l.Wrapper
	root   string
	cache  *cache.Cache
}

func NewLibrary(root string, cacheDuration time.Duration, logger l.Wrapper) *Library {
	if logger == nil {
		logger = l.NewNopLoggerWrapper()
	}

	if cacheDuration <= 0 {
		cacheDuration = defaultCacheDuration
	}

	return &Library{
		logger: logger.WithFields(l.StringField(l.ClsKey, "curveLibrary")),
		root:   root,
		cache:  cache.New(cacheDuration, cacheDuration*2),
	}
}

func (lib *Library) Root() string {
	return lib.root
}

func KindDir(kind curve.DeviceKind) string {
	switch kind {
	case curve.DeviceKindBreaker:
		return BreakerDir
	case curve.DeviceKindFuse:
		return FuseDir
	case curve.DeviceKindRecloser:
		return RecloserDir
	}

	return ""
}

// Entries lists the curve files of one kind sorted by file name. A missing
// folder yields no entries.
func (lib *Library) Entries(kind curve.DeviceKind) ([]Entry, error) {
	dir := filepath.Join(lib.root, KindDir(kind))

	des, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}

		return nil, err
	}

	names := make([]string, 0, len(des))

	for _, de := range des {
		if de.IsDir() || strings.HasPrefix(de.Name(), ".") {
			continue
		}

		names = append(names, de.Name())
	}

	sort.Strings(names)

	entries := make([]Entry, 0, len(names))

	for idx, name := range names {
		entries = append(entries, Entry{
			Kind:  kind,
			Index: idx,
			Name:  name,
			Path:  filepath.Join(dir, name),
		})
	}

	return entries, nil
}

// Select resolves a selection code such as b00, f14 or r02.
func (lib *Library) Select(sel string) (Entry, error) {
	kind, index, err := ParseSelection(sel)
	if err != nil {
		return Entry{}, err
	}

	entries, err := lib.Entries(kind)
	if err != nil {
		return Entry{}, err
	}

	if index >= len(entries) {
		return Entry{}, fmt.Errorf("%w: %s: only %d %s curves", ErrBadSelection, sel, len(entries), kind)
	}

	return entries[index], nil
}

func ParseSelection(sel string) (kind curve.DeviceKind, index int, err error) {
	if !selectionRe.MatchString(sel) {
		err = fmt.Errorf("%w: %q, want something like f14 or r02", ErrBadSelection, sel)

		return
	}

	switch sel[0] {
	case 'b':
		kind = curve.DeviceKindBreaker
	case 'f':
		kind = curve.DeviceKindFuse
	default:
		kind = curve.DeviceKindRecloser
	}

	index, err = strconv.Atoi(sel[1:])

	return
}

// Load reads and parses the curve file behind e. Parsed curves are cached by path.
func (lib *Library) Load(e Entry) (curve.RawCurve, error) {
	if i, ok := lib.cache.Get(e.Path); ok {
		if raw, ok := i.(curve.RawCurve); ok {
			return cloneRaw(raw), nil
		}
	}

	d, err := os.ReadFile(e.Path)
	if err != nil {
		return curve.RawCurve{}, err
	}

	name := strings.TrimSuffix(e.Name, filepath.Ext(e.Name))

	var raw curve.RawCurve

	switch strings.ToLower(filepath.Ext(e.Name)) {
	case ".yaml", ".yml":
		raw, err = decodeYAML(name, e.Kind, d)
	default:
		raw, err = capefile.Parse(name, e.Kind, bytes.NewReader(d))
	}

	if err != nil {
		lib.logger.WithFields(l.StringField("path", e.Path), l.ErrorField(err)).Error("load curve failed")

		return curve.RawCurve{}, err
	}

	lib.cache.Set(e.Path, raw, cache.DefaultExpiration)

	return cloneRaw(raw), nil
}

func (lib *Library) LoadSelection(sel string) (curve.RawCurve, error) {
	e, err := lib.Select(sel)
	if err != nil {
		return curve.RawCurve{}, err
	}

	return lib.Load(e)
}

// Candidates loads every recloser curve; their index doubles as candidate id.
func (lib *Library) Candidates() ([]Entry, []curve.RawCurve, error) {
	entries, err := lib.Entries(curve.DeviceKindRecloser)
	if err != nil {
		return nil, nil, err
	}

	raws := make([]curve.RawCurve, 0, len(entries))

	for _, e := range entries {
		raw, err := lib.Load(e)
		if err != nil {
			return nil, nil, err
		}

		raws = append(raws, raw)
	}

	return entries, raws, nil
}

type yamlCurve struct {
	Unit   string        `yaml:"unit"`
	Points []curve.Point `yaml:"points"`
}

func decodeYAML(name string, kind curve.DeviceKind, d []byte) (raw curve.RawCurve, err error) {
	var yc yamlCurve

	if err = yaml.Unmarshal(d, &yc); err != nil {
		err = fmt.Errorf("%w: %s: %s", ErrBadYAML, name, err.Error())

		return
	}

	raw = curve.RawCurve{
		Name:   name,
		Kind:   kind,
		Points: yc.Points,
	}

	switch strings.ToLower(yc.Unit) {
	case "", "cycle", "cycles":
		raw.Unit = curve.UnitCycles
	case "second", "seconds", "s":
		raw.Unit = curve.UnitSeconds
	default:
		err = fmt.Errorf("%w: %s: unknown unit %q", ErrBadYAML, name, yc.Unit)
	}

	return
}

func cloneRaw(raw curve.RawCurve) curve.RawCurve {
	ps := make([]curve.Point, len(raw.Points))
	copy(ps, raw.Points)
	raw.Points = ps

	return raw
}
