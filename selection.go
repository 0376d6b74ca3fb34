package ytgrab

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	ErrInvalidRange   = errors.New("invalid collection range")
	ErrInvalidIndices = errors.New("invalid collection indices")
)

type selectionMode int

const (
	selectAll selectionMode = iota
	selectRange
	selectIndices
	selectSkipCompleted
)

// A CollectionSelection picks which items of a collection the backend should
// fetch. Construct one with SelectAll, SelectRange, SelectIndices or
// SelectSkipCompleted; invalid parameter combinations are unrepresentable.
type CollectionSelection struct {
	mode        selectionMode
	lo, hi      int
	indices     []int
	archivePath string
}

// SelectAll fetches every item in the collection.
func SelectAll() CollectionSelection {
	return CollectionSelection{mode: selectAll}
}

// SelectRange fetches items lo through hi inclusive, 1-based.
func SelectRange(lo, hi int) (CollectionSelection, error) {
	if lo <= 0 || hi <= 0 || lo > hi {
		return CollectionSelection{}, fmt.Errorf("%w: %d-%d", ErrInvalidRange, lo, hi)
	}
	return CollectionSelection{mode: selectRange, lo: lo, hi: hi}, nil
}

// SelectIndices fetches exactly the listed 1-based items, in the given order.
func SelectIndices(indices []int) (CollectionSelection, error) {
	if len(indices) == 0 {
		return CollectionSelection{}, fmt.Errorf("%w: empty index list", ErrInvalidIndices)
	}
	for _, i := range indices {
		if i <= 0 {
			return CollectionSelection{}, fmt.Errorf("%w: index %d", ErrInvalidIndices, i)
		}
	}
	indices = append([]int(nil), indices...)
	return CollectionSelection{mode: selectIndices, indices: indices}, nil
}

// SelectSkipCompleted fetches items not yet recorded in the archive file at
// archivePath. The file is one identifier per line, append-only, and read and
// written exclusively by the backend; this system only passes the path along.
func SelectSkipCompleted(archivePath string) CollectionSelection {
	return CollectionSelection{mode: selectSkipCompleted, archivePath: archivePath}
}

// Indices returns the explicit index list, or nil for other modes.
func (s CollectionSelection) Indices() []int {
	return append([]int(nil), s.indices...)
}

// ArchivePath returns the persistence file path, or "" for other modes.
func (s CollectionSelection) ArchivePath() string {
	return s.archivePath
}

func (s CollectionSelection) String() string {
	switch s.mode {
	case selectRange:
		return fmt.Sprintf("items %d-%d", s.lo, s.hi)
	case selectIndices:
		return fmt.Sprintf("items %s", joinInts(s.indices))
	case selectSkipCompleted:
		return fmt.Sprintf("skip completed (%s)", s.archivePath)
	default:
		return "all items"
	}
}

// Args renders the selection as backend arguments.
func (s CollectionSelection) Args() []string {
	switch s.mode {
	case selectRange:
		return []string{"--playlist-items", fmt.Sprintf("%d-%d", s.lo, s.hi)}
	case selectIndices:
		return []string{"--playlist-items", joinInts(s.indices)}
	case selectSkipCompleted:
		return []string{"--download-archive", s.archivePath}
	default:
		return nil
	}
}

func joinInts(indices []int) string {
	parts := make([]string, len(indices))
	for i, n := range indices {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}

var (
	rangeRe   = regexp.MustCompile(`^(\d+)-(\d+)$`)
	indicesRe = regexp.MustCompile(`^\d+(,\d+)*$`)
)

// ParseItems accepts the user-facing item syntax: "N-M" for a range or
// "I,J,K" for an explicit list.
func ParseItems(s string) (CollectionSelection, error) {
	s = strings.TrimSpace(s)
	if m := rangeRe.FindStringSubmatch(s); m != nil {
		lo, err := strconv.Atoi(m[1])
		if err != nil {
			return CollectionSelection{}, fmt.Errorf("%w: %v", ErrInvalidRange, err)
		}
		hi, err := strconv.Atoi(m[2])
		if err != nil {
			return CollectionSelection{}, fmt.Errorf("%w: %v", ErrInvalidRange, err)
		}
		return SelectRange(lo, hi)
	}
	if indicesRe.MatchString(s) {
		parts := strings.Split(s, ",")
		indices := make([]int, 0, len(parts))
		for _, p := range parts {
			n, err := strconv.Atoi(p)
			if err != nil {
				return CollectionSelection{}, fmt.Errorf("%w: %v", ErrInvalidIndices, err)
			}
			indices = append(indices, n)
		}
		return SelectIndices(indices)
	}
	return CollectionSelection{}, fmt.Errorf("%w: %q is neither a range nor an index list", ErrInvalidIndices, s)
}
