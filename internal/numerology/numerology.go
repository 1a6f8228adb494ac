// Package numerology computes Pythagorean numerology numbers.
package numerology

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/cosmichub/cosmichub/internal/birthdata"
)

// Result carries the five core numbers for a name and birth date.
type Result struct {
	LifePath    int `json:"life_path"`
	Expression  int `json:"expression"`
	SoulUrge    int `json:"soul_urge"`
	Personality int `json:"personality"`
	Birthday    int `json:"birthday"`
}

// Calculate derives the core numbers. The name contributes the letter
// numbers; the birth date contributes life path and birthday. Master
// numbers 11, 22 and 33 are never reduced further.
func Calculate(fullName string, birth birthdata.UnifiedBirthData) (Result, error) {
	name := strings.TrimSpace(fullName)
	if name == "" {
		return Result{}, fmt.Errorf("full name is required")
	}
	if birth.Year == 0 && birth.Month == 0 {
		return Result{}, fmt.Errorf("birth data is required")
	}

	return Result{
		LifePath:    lifePath(birth.Year, birth.Month, birth.Day),
		Expression:  reduce(letterSum(name, anyLetter)),
		SoulUrge:    reduce(letterSum(name, isVowel)),
		Personality: reduce(letterSum(name, isConsonant)),
		Birthday:    reduce(birth.Day),
	}, nil
}

// lifePath reduces year, month and day independently before summing, the
// convention that preserves master numbers hidden in the components.
func lifePath(year, month, day int) int {
	return reduce(reduce(year) + reduce(month) + reduce(day))
}

// reduce collapses a number to a single digit, stopping at the master
// numbers 11, 22 and 33.
func reduce(n int) int {
	if n < 0 {
		n = -n
	}
	for n > 9 && n != 11 && n != 22 && n != 33 {
		sum := 0
		for n > 0 {
			sum += n % 10
			n /= 10
		}
		n = sum
	}
	return n
}

// Pythagorean table: A=1 .. I=9, J=1 .. R=9, S=1 .. Z=8.
func letterValue(r rune) int {
	if r < 'a' || r > 'z' {
		return 0
	}
	return int(r-'a')%9 + 1
}

func letterSum(name string, include func(rune) bool) int {
	sum := 0
	for _, r := range strings.ToLower(name) {
		if !unicode.IsLetter(r) || r < 'a' || r > 'z' {
			continue
		}
		if include(r) {
			sum += letterValue(r)
		}
	}
	return sum
}

func anyLetter(rune) bool { return true }

func isVowel(r rune) bool {
	switch r {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	}
	return false
}

func isConsonant(r rune) bool { return !isVowel(r) }
