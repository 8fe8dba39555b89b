package similarity

import (
	"math"
	"sort"
)

// tolerance absorbs rounding in dot products of unit vectors.
const tolerance = 1e-12

// Vector is a sparse, L2-normalised TF-IDF vector. Terms are sorted ascending.
type Vector struct {
	terms   []int
	weights []float64
}

// Model holds the TF-IDF vectors of one document collection. The vocabulary is
// induced by the collection itself and is rebuilt on every Fit.
type Model struct {
	vocab    map[string]int
	idf      []float64
	vectors  []Vector
	postings [][]posting
}

type posting struct {
	doc    int
	weight float64
}

// Fit builds TF-IDF vectors for the tokenized documents.
// Weights are raw term counts times the smoothed IDF ln((1+n)/(1+df)) + 1.
func Fit(docs [][]string) *Model {
	m := &Model{vocab: make(map[string]int)}

	counts := make([]map[int]float64, len(docs))
	var df []int
	for i, tokens := range docs {
		tf := make(map[int]float64, len(tokens))
		for _, token := range tokens {
			id, ok := m.vocab[token]
			if !ok {
				id = len(m.vocab)
				m.vocab[token] = id
				df = append(df, 0)
			}
			if _, seen := tf[id]; !seen {
				df[id]++
			}
			tf[id]++
		}
		counts[i] = tf
	}

	n := float64(len(docs))
	m.idf = make([]float64, len(df))
	for id, d := range df {
		m.idf[id] = math.Log((1+n)/(1+float64(d))) + 1
	}

	m.vectors = make([]Vector, len(docs))
	m.postings = make([][]posting, len(df))
	for i, tf := range counts {
		v := m.weigh(tf)
		m.vectors[i] = v
		for k, term := range v.terms {
			m.postings[term] = append(m.postings[term], posting{doc: i, weight: v.weights[k]})
		}
	}

	return m
}

func (m *Model) weigh(tf map[int]float64) Vector {
	v := Vector{
		terms:   make([]int, 0, len(tf)),
		weights: make([]float64, 0, len(tf)),
	}
	for term := range tf {
		v.terms = append(v.terms, term)
	}
	sort.Ints(v.terms)

	var norm float64
	for _, term := range v.terms {
		w := tf[term] * m.idf[term]
		v.weights = append(v.weights, w)
		norm += w * w
	}
	if norm == 0 {
		return v
	}
	norm = math.Sqrt(norm)
	for k := range v.weights {
		v.weights[k] /= norm
	}
	return v
}

// Len returns the number of documents.
func (m *Model) Len() int {
	return len(m.vectors)
}

// VocabularySize returns the number of distinct terms.
func (m *Model) VocabularySize() int {
	return len(m.vocab)
}

// Similarity returns the cosine similarity of documents i and j.
func (m *Model) Similarity(i, j int) float64 {
	return CosineSimilarity(m.vectors[i], m.vectors[j])
}

// Pairs calls fn for every pair i < j whose cosine similarity is at least
// threshold, ordered by i and then by j. With a positive threshold only
// documents sharing a term are ever compared.
func (m *Model) Pairs(threshold float64, fn func(i, j int, sim float64)) {
	n := len(m.vectors)
	if threshold <= 0 {
		// every pair qualifies, including those without a shared term
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				fn(i, j, math.Min(m.Similarity(i, j), 1))
			}
		}
		return
	}

	scores := make([]float64, n)
	touched := make([]int, 0, n)

	for i, v := range m.vectors {
		for k, term := range v.terms {
			w := v.weights[k]
			for _, p := range m.postings[term] {
				if p.doc <= i {
					continue
				}
				if scores[p.doc] == 0 {
					touched = append(touched, p.doc)
				}
				scores[p.doc] += w * p.weight
			}
		}

		sort.Ints(touched)
		for _, j := range touched {
			if sim := scores[j]; sim >= threshold-tolerance {
				fn(i, j, math.Min(sim, 1))
			}
			scores[j] = 0
		}
		touched = touched[:0]
	}
}

// CosineSimilarity computes the cosine similarity of two vectors.
// Returns 0 if either vector is empty or has zero norm.
func CosineSimilarity(a, b Vector) float64 {
	var dot, normA, normB float64
	for _, w := range a.weights {
		normA += w * w
	}
	for _, w := range b.weights {
		normB += w * w
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	i, j := 0, 0
	for i < len(a.terms) && j < len(b.terms) {
		switch {
		case a.terms[i] == b.terms[j]:
			dot += a.weights[i] * b.weights[j]
			i++
			j++
		case a.terms[i] < b.terms[j]:
			i++
		default:
			j++
		}
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
