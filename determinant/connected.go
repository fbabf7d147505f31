package determinant

import (
	"github.com/kgasperich/arches/internal/detbits"
)

// Constraint restricts excitation generation: holes may only be taken from
// the Holes mask and particles only placed into the Particles mask. The same
// masks apply to both spin channels. A nil *Constraint allows everything.
type Constraint struct {
	Holes     SpinDeterminant
	Particles SpinDeterminant
}

// AllowAll returns a constraint admitting every hole and particle over norb
// orbitals.
func AllowAll(norb int) *Constraint {
	full := NewSpin(norb).WithRange(0, norb, true)
	return &Constraint{Holes: full, Particles: full}
}

// spinCandidates splits one spin channel into the allowed hole and particle
// orbital lists. Holes are occupied orbitals inside the hole mask, particles
// unoccupied orbitals inside the particle mask.
func spinCandidates(s SpinDeterminant, c *Constraint) (holes, parts []int) {
	occ := s.bits
	unocc := detbits.Not(s.bits)
	if c != nil {
		occ = detbits.And(occ, c.Holes.bits)
		unocc = detbits.And(unocc, c.Particles.bits)
	}
	return occ.Ones(nil), unocc.Ones(nil)
}

// spinSingles returns every single excitation of s allowed by c.
func spinSingles(s SpinDeterminant, c *Constraint) []SpinDeterminant {
	holes, parts := spinCandidates(s, c)
	out := make([]SpinDeterminant, 0, len(holes)*len(parts))
	for _, h := range holes {
		for _, p := range parts {
			out = append(out, s.Excite(h, p))
		}
	}
	return out
}

// spinDoubles returns every same-spin double excitation of s allowed by c.
func spinDoubles(s SpinDeterminant, c *Constraint) []SpinDeterminant {
	holes, parts := spinCandidates(s, c)
	var out []SpinDeterminant
	for i := 0; i < len(holes); i++ {
		for j := i + 1; j < len(holes); j++ {
			for k := 0; k < len(parts); k++ {
				for l := k + 1; l < len(parts); l++ {
					out = append(out, s.Excite(holes[i], parts[k]).Excite(holes[j], parts[l]))
				}
			}
		}
	}
	return out
}

// Connected returns all determinants reachable from d by a single or double
// excitation allowed by c: per-spin singles, same-spin doubles, and
// opposite-spin doubles formed as products of singles. The result contains
// no duplicates and does not contain d.
func Connected(d Determinant, c *Constraint) []Determinant {
	singlesA := spinSingles(d.Alpha, c)
	singlesB := spinSingles(d.Beta, c)

	var out []Determinant
	for _, a := range singlesA {
		out = append(out, Determinant{Alpha: a, Beta: d.Beta})
	}
	for _, b := range singlesB {
		out = append(out, Determinant{Alpha: d.Alpha, Beta: b})
	}
	for _, a := range spinDoubles(d.Alpha, c) {
		out = append(out, Determinant{Alpha: a, Beta: d.Beta})
	}
	for _, b := range spinDoubles(d.Beta, c) {
		out = append(out, Determinant{Alpha: d.Alpha, Beta: b})
	}
	for _, a := range singlesA {
		for _, b := range singlesB {
			out = append(out, Determinant{Alpha: a, Beta: b})
		}
	}
	return out
}

// ConnectedFromBasis returns the external space of a basis: the union of the
// connected sets of all basis determinants, minus the basis itself,
// deduplicated in first-encounter order.
func ConnectedFromBasis(basis []Determinant, c *Constraint) []Determinant {
	seen := make(map[string]struct{}, len(basis))
	for _, d := range basis {
		seen[d.Key()] = struct{}{}
	}

	var out []Determinant
	for _, d := range basis {
		for _, e := range Connected(d, c) {
			k := e.Key()
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, e)
		}
	}
	return out
}
