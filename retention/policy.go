// Package retention decides which dated log files are excess and deletes
// them. Files are matched against a datepattern.Pattern and ordered by name;
// the supported directives are fixed width, so lexicographic order on the
// file name is chronological order. The oldest files beyond the keep count
// are removed. A file deleted out from under us by another process is not an
// error; that race is expected when several processes share a pattern.
package retention

import (
	"errors"
	"io/fs"
	"path/filepath"
	"sort"

	"golift.io/datorr/datepattern"
	"golift.io/datorr/filer"
)

// Policy deletes the oldest files produced by a pattern once their count
// exceeds Keep. The file currently open for writing counts toward Keep but
// is never deleted.
type Policy struct {
	Keep    int                  // Maximum number of dated files. 0 disables deletion.
	Pattern *datepattern.Pattern // Recognizes the files this policy may touch.
	Logf    func(msg string, v ...any)
	filer.Filer
}

// Excess returns the paths that must be deleted to satisfy the keep count,
// oldest first. The active path is never returned. Returns nothing when
// deletion is disabled or the directory cannot be listed.
func (p *Policy) Excess(dir, active string) []string {
	if p.Keep < 1 {
		return nil
	}

	if p.Filer == nil {
		p.Filer = filer.Default()
	}

	fileList, err := p.ReadDir(dir)
	if err != nil {
		return nil
	}

	names := []string{}

	for idx := range fileList {
		if fileList[idx].IsDir() {
			continue // not our file.
		}

		if name := fileList[idx].Name(); p.Pattern.MatchBase(name) {
			names = append(names, name)
		}
	}

	if len(names) <= p.Keep {
		return nil
	}

	sort.Strings(names) // oldest files first.

	var (
		activeName = filepath.Base(active)
		excess     = []string{}
	)

	for _, name := range names[:len(names)-p.Keep] {
		if name == activeName {
			continue // never delete the open file.
		}

		excess = append(excess, filepath.Join(dir, name))
	}

	return excess
}

// Clean deletes the excess files and returns how many were removed.
// A file that is already gone was deleted by another process sharing the
// pattern; that is skipped silently. Any other deletion failure goes to the
// Logf hook and the remaining candidates are still processed.
func (p *Policy) Clean(dir, active string) int {
	var removed int

	for _, path := range p.Excess(dir, active) {
		switch err := p.Remove(path); {
		case err == nil:
			removed++
		case errors.Is(err, fs.ErrNotExist):
			// Another process beat us to it.
		default:
			p.logf("error removing old log file: %v", err)
		}
	}

	return removed
}

func (p *Policy) logf(msg string, v ...any) {
	if p.Logf != nil {
		p.Logf(msg, v...)
	}
}
