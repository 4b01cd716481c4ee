package timeutil

import (
	"math"
	"strconv"
	"strings"
)

// Window - полуоткрытый интервал [Start, End) в секундах от полуночи
type Window struct {
	Start int
	End   int
}

// units - вес часов, минут и секунд
var units = [3]int{3600, 60, 1}

// ToSeconds переводит строку HH:MM[:SS] в секунды от полуночи.
// Недостающие части считаются нулями. Пустая строка, нечисловая часть
// или часть, при которой сумма не помещается в int, дают ok == false
func ToSeconds(value string) (int, bool) {
	if value == "" {
		return 0, false
	}

	parts := strings.Split(value, ":")
	total := 0

	for i := 0; i < len(units) && i < len(parts); i++ {
		part := strings.TrimSpace(parts[i])
		if part == "" {
			continue
		}

		n, err := strconv.Atoi(part)
		if err != nil {
			return 0, false
		}

		// каждое слагаемое не больше трети диапазона, сумма трех не переполняется
		limit := math.MaxInt / 3 / units[i]
		if n > limit || n < -limit {
			return 0, false
		}
		total += n * units[i]
	}

	return total, true
}

func ParseWindow(start, end string) (Window, bool) {
	s, ok := ToSeconds(start)
	if !ok {
		return Window{}, false
	}

	e, ok := ToSeconds(end)
	if !ok {
		return Window{}, false
	}

	return Window{Start: s, End: e}, true
}

// Overlaps - строгая проверка, касание концами пересечением не считается
func (w Window) Overlaps(other Window) bool {
	return w.Start < other.End && other.Start < w.End
}

// IntervalsOverlap возвращает false, если хотя бы одно из значений не разобрано
func IntervalsOverlap(startA, endA, startB, endB string) bool {
	a, ok := ParseWindow(startA, endA)
	if !ok {
		return false
	}

	b, ok := ParseWindow(startB, endB)
	if !ok {
		return false
	}

	return a.Overlaps(b)
}
