package itinerary

// CycleWithWrap returns n items taken from items in order, starting over from
// the first item when the pool runs out. An item can therefore appear more
// than once. It returns nil when items is empty or n <= 0.
func CycleWithWrap[T any](items []T, n int) []T {
	if len(items) == 0 || n <= 0 {
		return nil
	}
	out := make([]T, n)
	for i := range out {
		out[i] = items[i%len(items)]
	}
	return out
}
