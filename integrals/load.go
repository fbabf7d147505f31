package integrals

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"golang.org/x/exp/constraints"

	"github.com/kgasperich/arches/determinant"
)

// ErrBadHeader is returned when an FCIDUMP header lacks NORB or NELEC.
var ErrBadHeader = errors.New("integrals: malformed FCIDUMP header")

// ErrArity is returned when a wavefunction file does not consist of
// (coefficient, alpha, beta) triples.
var ErrArity = errors.New("integrals: wavefunction token count not a multiple of three")

// ErrNoReferenceEnergy is returned when no energy line is found.
var ErrNoReferenceEnergy = errors.New("integrals: no reference energy in input")

// ParseError wraps a parse failure with its 1-based line number.
type ParseError struct {
	Line int
	Err  error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("integrals: line %d: %v", e.Line, e.Err)
}

// Unwrap returns the wrapped error.
func (e *ParseError) Unwrap() error { return e.Err }

var (
	norbRe  = regexp.MustCompile(`NORB\s*=\s*(\d+)`)
	nelecRe = regexp.MustCompile(`NELEC\s*=\s*(\d+)`)
	erefRe  = regexp.MustCompile(`E\s*=\s*(-?\d+\.\d+)`)
)

// ParseFCIDUMP reads an FCIDUMP stream into a table. The file stores
// integrals in Mulliken order (ik|jl) with 1-based indices; entries are
// swapped to Dirac order <ij|kl> and shifted to 0-based on load. Lines with
// the last two indices zero carry one-electron integrals, and the all-zero
// index line carries the core energy E0.
func ParseFCIDUMP[T constraints.Float](r io.Reader) (*Table[T], error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	line := 0

	norb, nelec := -1, -1
	for sc.Scan() {
		line++
		s := sc.Text()
		if m := norbRe.FindStringSubmatch(s); m != nil {
			norb, _ = strconv.Atoi(m[1])
		}
		if m := nelecRe.FindStringSubmatch(s); m != nil {
			nelec, _ = strconv.Atoi(m[1])
		}
		if strings.Contains(s, "&END") || strings.TrimSpace(s) == "/" {
			break
		}
	}
	if norb <= 0 || nelec < 0 {
		return nil, ErrBadHeader
	}

	t := NewTable[T](norb)
	t.SetNelec(nelec)

	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 5 {
			return nil, &ParseError{Line: line, Err: fmt.Errorf("want 5 fields, got %d", len(fields))}
		}
		v, err := strconv.ParseFloat(strings.ReplaceAll(fields[0], "D", "E"), 64)
		if err != nil {
			return nil, &ParseError{Line: line, Err: err}
		}
		idx := make([]int, 4)
		for n, f := range fields[1:] {
			idx[n], err = strconv.Atoi(f)
			if err != nil {
				return nil, &ParseError{Line: line, Err: err}
			}
		}

		// Mulliken (ik|jl): field order is i, k, j, l.
		i, k, j, l := idx[0], idx[1], idx[2], idx[3]
		switch {
		case i == 0:
			t.SetE0(T(v))
		case j == 0 && l == 0:
			if err := t.SetOneElectron(i-1, k-1, T(v)); err != nil {
				return nil, &ParseError{Line: line, Err: err}
			}
		default:
			if err := t.SetTwoElectron(i-1, j-1, k-1, l-1, T(v)); err != nil {
				return nil, &ParseError{Line: line, Err: err}
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return t, nil
}

// LoadFCIDUMP reads an FCIDUMP file from disk, transparently decompressing
// .gz and .zst files.
func LoadFCIDUMP[T constraints.Float](path string) (*Table[T], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, closeFn, err := decompressed(f, path)
	if err != nil {
		return nil, err
	}
	defer closeFn()
	return ParseFCIDUMP[T](r)
}

func decompressed(f *os.File, path string) (io.Reader, func(), error) {
	switch {
	case strings.HasSuffix(path, ".gz"):
		zr, err := gzip.NewReader(f)
		if err != nil {
			return nil, nil, err
		}
		return zr, func() { zr.Close() }, nil
	case strings.HasSuffix(path, ".zst"):
		zr, err := zstd.NewReader(f)
		if err != nil {
			return nil, nil, err
		}
		return zr, zr.Close, nil
	default:
		return f, func() {}, nil
	}
}

// Wavefunction is a normalized CI vector: one coefficient per determinant.
type Wavefunction[T constraints.Float] struct {
	Coef []T
	Dets []determinant.Determinant
}

// ParseWavefunction reads whitespace-separated (coefficient, alpha, beta)
// triples. Occupation strings use '+' for occupied and '-' for empty, one
// character per orbital. The coefficient vector is normalized on load.
func ParseWavefunction[T constraints.Float](r io.Reader, norb int) (*Wavefunction[T], error) {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)

	var tokens []string
	for sc.Scan() {
		tokens = append(tokens, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(tokens)%3 != 0 {
		return nil, ErrArity
	}

	wf := &Wavefunction[T]{}
	for n := 0; n < len(tokens); n += 3 {
		c, err := strconv.ParseFloat(tokens[n], 64)
		if err != nil {
			return nil, fmt.Errorf("integrals: coefficient %q: %w", tokens[n], err)
		}
		alpha, err := decodeOccupation(tokens[n+1], norb)
		if err != nil {
			return nil, err
		}
		beta, err := decodeOccupation(tokens[n+2], norb)
		if err != nil {
			return nil, err
		}
		wf.Coef = append(wf.Coef, T(c))
		wf.Dets = append(wf.Dets, determinant.New(alpha, beta))
	}
	wf.Normalize()
	return wf, nil
}

// LoadWavefunction reads a wavefunction file from disk, transparently
// decompressing .gz and .zst files.
func LoadWavefunction[T constraints.Float](path string, norb int) (*Wavefunction[T], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, closeFn, err := decompressed(f, path)
	if err != nil {
		return nil, err
	}
	defer closeFn()
	return ParseWavefunction[T](r, norb)
}

// Normalize scales the coefficients to unit Euclidean norm.
func (w *Wavefunction[T]) Normalize() {
	var sum float64
	for _, c := range w.Coef {
		sum += float64(c) * float64(c)
	}
	if sum == 0 {
		return
	}
	inv := T(1 / math.Sqrt(sum))
	for n := range w.Coef {
		w.Coef[n] *= inv
	}
}

func decodeOccupation(s string, norb int) (determinant.SpinDeterminant, error) {
	if len(s) != norb {
		return determinant.SpinDeterminant{}, fmt.Errorf("integrals: occupation %q: want %d orbitals, got %d", s, norb, len(s))
	}
	det := determinant.NewSpin(norb)
	for n, ch := range s {
		switch ch {
		case '+':
			det = det.WithOrbital(n, true)
		case '-':
		default:
			return determinant.SpinDeterminant{}, fmt.Errorf("integrals: occupation %q: bad character %q", s, ch)
		}
	}
	return det, nil
}

// ParseReferenceEnergy extracts the first "E = <value>" line from a stream
// of reference results.
func ParseReferenceEnergy(r io.Reader) (float64, error) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if m := erefRe.FindStringSubmatch(sc.Text()); m != nil {
			return strconv.ParseFloat(m[1], 64)
		}
	}
	if err := sc.Err(); err != nil {
		return 0, err
	}
	return 0, ErrNoReferenceEnergy
}
