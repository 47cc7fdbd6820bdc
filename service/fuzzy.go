package service

import (
	"math"
	"strings"
)

// similarity calcula una similitud normalizada en [0, 100] basada en la
// distancia de Levenshtein, ignorando mayúsculas y espacios en los extremos.
// 100 significa cadenas equivalentes.
func similarity(a, b string) int {
	ra := []rune(strings.ToLower(strings.TrimSpace(a)))
	rb := []rune(strings.ToLower(strings.TrimSpace(b)))

	if len(ra) == 0 && len(rb) == 0 {
		return 100
	}
	longest := len(ra)
	if len(rb) > longest {
		longest = len(rb)
	}
	dist := levenshtein(ra, rb)
	return int(math.Round(100 * float64(longest-dist) / float64(longest)))
}

// levenshtein es la distancia de edición clásica con dos filas de trabajo.
func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

// bestMatch devuelve el candidato con mayor similitud al texto de entrada y
// su puntaje. Con empate gana el primero en el orden recibido.
func bestMatch(input string, candidates []string) (string, int) {
	best := ""
	bestScore := -1
	for _, c := range candidates {
		if score := similarity(input, c); score > bestScore {
			best = c
			bestScore = score
		}
	}
	return best, bestScore
}
