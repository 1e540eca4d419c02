package utils

func Map[A any, B any](input []A, mapper func(A) B) []B {
	output := make([]B, len(input))
	for i, item := range input {
		output[i] = mapper(item)
	}
	return output
}

// Uniques keeps the first occurrence of every item, in input order.
func Uniques[A comparable](input []A) []A {
	seen := make(map[A]bool)
	output := make([]A, 0, len(input))
	for _, item := range input {
		if !seen[item] {
			seen[item] = true
			output = append(output, item)
		}
	}
	return output
}

func GroupBy[A any, K comparable](input []A, key func(A) K) map[K][]A {
	groups := make(map[K][]A)
	for _, item := range input {
		k := key(item)
		groups[k] = append(groups[k], item)
	}
	return groups
}

func CountBy[A any, K comparable](input []A, key func(A) K) map[K]int {
	counts := make(map[K]int)
	for _, item := range input {
		counts[key(item)]++
	}
	return counts
}
