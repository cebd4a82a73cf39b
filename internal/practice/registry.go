package practice

import "sort"

// Answers maps a 1-based question number to the chosen option id.
type Answers map[int]string

func (a Answers) Record(n int, optionID string) { a[n] = optionID }

func (a Answers) Has(n int) bool {
	_, ok := a[n]
	return ok
}

func (a Answers) Clone() Answers {
	out := make(Answers, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// FlagSet holds the question numbers marked for review.
type FlagSet map[int]struct{}

// Toggle flips membership of n and reports whether n is now flagged.
func (f FlagSet) Toggle(n int) bool {
	if _, ok := f[n]; ok {
		delete(f, n)
		return false
	}
	f[n] = struct{}{}
	return true
}

func (f FlagSet) Has(n int) bool {
	_, ok := f[n]
	return ok
}

// Sorted returns the flagged numbers in ascending order.
func (f FlagSet) Sorted() []int {
	out := make([]int, 0, len(f))
	for n := range f {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}
