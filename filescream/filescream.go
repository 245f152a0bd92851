// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at tinythings (https://github.com/tinythings).
// Copyright 2020-present tinythings, Inc.

// Package filescream watches directory trees for created, changed, and
// removed files. Each tick it takes a cheap snapshot — a directory-mtime
// short-circuit means unchanged subtrees are never re-read — and diffs it
// against the previous one.
package filescream

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/tinythings/omnitrace/internal/sensor"
)

// fingerprint is a content-free identity for a file: a hash of its size
// and modification time, not its bytes.
type fingerprint [32]byte

type dirStamp struct {
	mtimeNS uint64
}

// Config holds FileScream's tunables.
type Config struct {
	Pulse time.Duration
}

// DefaultConfig returns the documented default: a 3s pulse.
func DefaultConfig() Config {
	return Config{Pulse: 3 * time.Second}
}

// FileScream is a diff-based file-tree watcher. The zero value is not
// usable; construct with New.
type FileScream struct {
	cfg Config
	fs  afero.Fs

	roots          []string
	ignorePatterns []string
	ignore         ignoreSet

	fstate map[string]fingerprint
	dstate map[string]dirStamp
	primed bool
}

// New builds a FileScream against the real OS filesystem.
func New(cfg Config) *FileScream {
	if cfg.Pulse <= 0 {
		cfg.Pulse = DefaultConfig().Pulse
	}
	return &FileScream{
		cfg:    cfg,
		fs:     afero.NewOsFs(),
		fstate: make(map[string]fingerprint),
		dstate: make(map[string]dirStamp),
	}
}

// SetFs swaps the backing filesystem; a test seam for afero.MemMapFs (or a
// counting wrapper around one).
func (f *FileScream) SetFs(fs afero.Fs) {
	f.fs = fs
}

// Watch adds a root directory to scan. Paths are canonicalized when
// possible so the same tree watched by two different spellings collapses
// to one root.
func (f *FileScream) Watch(p string) {
	root := canonicalize(f.fs, p)
	for _, r := range f.roots {
		if r == root {
			return
		}
	}
	f.roots = append(f.roots, root)
}

// Ignore adds a glob pattern pruning matching paths from every scan. A
// pattern ending in "/" only prunes directories; a leading "/" anchors to
// the filesystem root; otherwise it matches anywhere in the tree.
func (f *FileScream) Ignore(pattern string) {
	f.ignorePatterns = append(f.ignorePatterns, pattern)
	f.ignore = newIgnoreSet(f.ignorePatterns)
}

// Primed reports whether the first scan has completed.
func (f *FileScream) Primed() bool {
	return f.primed
}

type scanResult struct {
	files map[string]fingerprint
	dirs  map[string]dirStamp
	err   error
}

// scanOnce runs one full scan, converting a panic deep in the filesystem
// walk into a fatal error rather than crashing the sensor goroutine's
// caller.
func (f *FileScream) scanOnce() (result scanResult) {
	defer func() {
		if r := recover(); r != nil {
			result = scanResult{err: fmt.Errorf("filescream: scan panicked: %v", r)}
		}
	}()
	files, dirs := scan(f.fs, f.roots, f.ignore, f.dstate, f.fstate)
	return scanResult{files: files, dirs: dirs}
}

// Run implements sensor.Sensor[Event]. The first scan primes state and
// fires nothing; every scan after that diffs against the prior snapshot.
func (f *FileScream) Run(ctx sensor.Ctx[Event]) error {
	res := f.scanOnce()
	if res.err != nil {
		return res.err
	}
	f.fstate = res.files
	f.dstate = res.dirs
	f.primed = true

	ticker := time.NewTicker(f.cfg.Pulse)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Context.Done():
			return nil
		case <-ticker.C:
		}

		resultCh := make(chan scanResult, 1)
		go func() { resultCh <- f.scanOnce() }()

		select {
		case <-ctx.Context.Done():
			// The in-flight scan's goroutine finishes on its own; its
			// result is simply never consumed.
			return nil
		case res := <-resultCh:
			if res.err != nil {
				return res.err
			}
			f.diffAndFire(ctx.Hub, res.files)
			f.fstate = res.files
			f.dstate = res.dirs
		}
	}
}

func (f *FileScream) diffAndFire(hub *sensor.Hub[Event], newFiles map[string]fingerprint) {
	for p := range newFiles {
		if _, ok := f.fstate[p]; !ok {
			hub.Fire(MaskCreated, Created(p))
		}
	}
	for p, nh := range newFiles {
		if oh, ok := f.fstate[p]; ok && oh != nh {
			hub.Fire(MaskChanged, Changed(p))
		}
	}
	for p := range f.fstate {
		if _, ok := newFiles[p]; !ok {
			hub.Fire(MaskRemoved, Removed(p))
		}
	}
}

// scan performs one depth-first pass over roots, consulting and updating
// prevDirState's short-circuit and reusing prevFiles for subtrees whose
// directory mtime hasn't moved.
func scan(fs afero.Fs, roots []string, ignore ignoreSet, prevDirState map[string]dirStamp, prevFiles map[string]fingerprint) (map[string]fingerprint, map[string]dirStamp) {
	newFiles := make(map[string]fingerprint)
	newDirState := make(map[string]dirStamp)

	for _, root := range roots {
		stack := []string{root}

		for len(stack) > 0 {
			p := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			fi, err := lstat(fs, p)
			if err != nil {
				continue
			}

			isDir := fi.IsDir()
			if ignore.matches(normalizePath(p), isDir) {
				continue
			}

			switch {
			case isDir:
				stamp := dirStamp{mtimeNS: mtimeNS(fi)}
				old, hadOld := prevDirState[p]
				newDirState[p] = stamp

				if hadOld && old == stamp && p != root {
					for fp, fprint := range prevFiles {
						if isUnder(fp, p) {
							newFiles[fp] = fprint
						}
					}
					continue
				}

				entries, err := afero.ReadDir(fs, p)
				if err != nil {
					continue
				}
				for _, ent := range entries {
					stack = append(stack, path.Join(p, ent.Name()))
				}

			case fi.Mode().IsRegular():
				newFiles[p] = fingerprintOf(fi)

			default:
				// symlinks, devices, sockets: not tracked.
			}
		}
	}

	return newFiles, newDirState
}

func lstat(fs afero.Fs, p string) (os.FileInfo, error) {
	if l, ok := fs.(afero.Lstater); ok {
		fi, _, err := l.LstatIfPossible(p)
		return fi, err
	}
	return fs.Stat(p)
}

func isUnder(p, dir string) bool {
	if p == dir {
		return false
	}
	prefix := dir
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return strings.HasPrefix(p, prefix)
}

func fingerprintOf(fi os.FileInfo) fingerprint {
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[0:8], uint64(fi.Size()))
	binary.LittleEndian.PutUint64(buf[8:16], mtimeNS(fi))
	return sha256.Sum256(buf[:])
}

func mtimeNS(fi os.FileInfo) uint64 {
	t := fi.ModTime()
	if t.IsZero() {
		return 0
	}
	ns := t.UnixNano()
	if ns < 0 {
		return 0
	}
	return uint64(ns)
}

func canonicalize(fs afero.Fs, p string) string {
	clean := path.Clean(filepath.ToSlash(p))
	if _, ok := fs.(*afero.OsFs); ok {
		if abs, err := filepath.Abs(clean); err == nil {
			if resolved, err := filepath.EvalSymlinks(abs); err == nil {
				return filepath.ToSlash(resolved)
			}
			return filepath.ToSlash(abs)
		}
	}
	return clean
}
