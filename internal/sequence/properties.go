package sequence

import "math"

// Properties holds the closed-form physicochemical descriptors of a peptide.
// The instability index requires the published dipeptide weight matrix and is
// only available through the external feature extractor.
type Properties struct {
	MolecularWeight  float64 `json:"molecular_weight"`
	NetChargePH7     float64 `json:"net_charge_pH7"`
	IsoelectricPoint float64 `json:"isoelectric_point"`
	Aromaticity      float64 `json:"aromaticity"`
	GRAVY            float64 `json:"gravy"`
}

// Average residue masses in Daltons, peptide-bonded form.
var residueMass = map[rune]float64{
	'A': 71.0788, 'R': 156.1875, 'N': 114.1038, 'D': 115.0886,
	'C': 103.1388, 'E': 129.1155, 'Q': 128.1307, 'G': 57.0519,
	'H': 137.1411, 'I': 113.1594, 'L': 113.1594, 'K': 128.1741,
	'M': 131.1926, 'F': 147.1766, 'P': 97.1167, 'S': 87.0782,
	'T': 101.1051, 'W': 186.2132, 'Y': 163.1760, 'V': 99.1326,
}

const waterMass = 18.0153

// Kyte-Doolittle hydropathy values.
var hydropathy = map[rune]float64{
	'A': 1.8, 'R': -4.5, 'N': -3.5, 'D': -3.5, 'C': 2.5,
	'Q': -3.5, 'E': -3.5, 'G': -0.4, 'H': -3.2, 'I': 4.5,
	'L': 3.8, 'K': -3.9, 'M': 1.9, 'F': 2.8, 'P': -1.6,
	'S': -0.8, 'T': -0.7, 'W': -0.9, 'Y': -1.3, 'V': 4.2,
}

// EMBOSS pKa values for ionizable groups.
const (
	pKaNTerm = 8.6
	pKaCTerm = 3.6
)

var pKaPositive = map[rune]float64{
	'K': 10.8, 'R': 12.5, 'H': 6.5,
}

var pKaNegative = map[rune]float64{
	'D': 3.9, 'E': 4.1, 'C': 8.5, 'Y': 10.1,
}

// Composition returns the percentage of each of the 20 standard residues in
// the sequence, keyed by single-letter code. Every residue appears in the map
// even when absent from the sequence.
func Composition(seq string) map[string]float64 {
	counts := make(map[rune]int, 20)
	total := 0
	for _, r := range seq {
		counts[r]++
		total++
	}

	composition := make(map[string]float64, 20)
	for _, r := range aminoAcids {
		pct := 0.0
		if total > 0 {
			pct = float64(counts[r]) / float64(total) * 100.0
		}
		composition[string(r)] = pct
	}
	return composition
}

// ComputeProperties calculates the physicochemical descriptors of a validated
// sequence. The caller must pass a normalized, validated sequence.
func ComputeProperties(seq string) Properties {
	return Properties{
		MolecularWeight:  molecularWeight(seq),
		NetChargePH7:     chargeAtPH(seq, 7.0),
		IsoelectricPoint: isoelectricPoint(seq),
		Aromaticity:      aromaticity(seq),
		GRAVY:            gravy(seq),
	}
}

func molecularWeight(seq string) float64 {
	mass := waterMass
	for _, r := range seq {
		mass += residueMass[r]
	}
	return mass
}

// chargeAtPH computes the Henderson-Hasselbalch net charge of the peptide.
func chargeAtPH(seq string, pH float64) float64 {
	positiveCharge := func(pKa float64) float64 {
		return 1.0 / (1.0 + math.Pow(10, pH-pKa))
	}
	negativeCharge := func(pKa float64) float64 {
		return -1.0 / (1.0 + math.Pow(10, pKa-pH))
	}

	charge := positiveCharge(pKaNTerm) + negativeCharge(pKaCTerm)
	for _, r := range seq {
		if pKa, ok := pKaPositive[r]; ok {
			charge += positiveCharge(pKa)
		}
		if pKa, ok := pKaNegative[r]; ok {
			charge += negativeCharge(pKa)
		}
	}
	return charge
}

// isoelectricPoint finds the pH of zero net charge by bisection. Net charge is
// strictly decreasing in pH, so the bracket [0, 14] always converges.
func isoelectricPoint(seq string) float64 {
	lo, hi := 0.0, 14.0
	for i := 0; i < 100; i++ {
		mid := (lo + hi) / 2
		if chargeAtPH(seq, mid) > 0 {
			lo = mid
		} else {
			hi = mid
		}
		if hi-lo < 1e-6 {
			break
		}
	}
	return (lo + hi) / 2
}

// aromaticity is the fraction of aromatic residues (F, W, Y).
func aromaticity(seq string) float64 {
	if seq == "" {
		return 0
	}
	aromatic := 0
	for _, r := range seq {
		switch r {
		case 'F', 'W', 'Y':
			aromatic++
		}
	}
	return float64(aromatic) / float64(len(seq))
}

// gravy is the grand average of hydropathy over all residues.
func gravy(seq string) float64 {
	if seq == "" {
		return 0
	}
	sum := 0.0
	for _, r := range seq {
		sum += hydropathy[r]
	}
	return sum / float64(len(seq))
}
