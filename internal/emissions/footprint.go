package emissions

// Footprint keeps the most recent result per category. It is not safe for concurrent
// use; callers that share one guard it themselves.
type Footprint struct {
	latest map[Category]Result
}

// NewFootprint returns an empty footprint, optionally seeded with prior results.
func NewFootprint(results ...Result) *Footprint {
	f := &Footprint{latest: make(map[Category]Result, len(Categories))}
	for _, r := range results {
		f.Publish(r)
	}
	return f
}

// Publish records r as the latest result for its category. Results without a known
// category, or older than the one already held, are ignored.
func (f *Footprint) Publish(r Result) {
	if _, ok := ParseCategory(string(r.Category)); !ok {
		return
	}
	if f.latest == nil {
		f.latest = make(map[Category]Result, len(Categories))
	}
	if prev, ok := f.latest[r.Category]; ok && r.CalculatedAt.Before(prev.CalculatedAt) {
		return
	}
	if r.Tons < 0 {
		r.Tons = 0
	}
	f.latest[r.Category] = r
}

// Total sums the latest result per category in tons, rounded to four decimals.
func (f *Footprint) Total() float64 {
	var total float64
	for _, c := range Categories {
		total += f.latest[c].Tons
	}
	return round(total, 4)
}

// Results returns the recorded results in category order.
func (f *Footprint) Results() []Result {
	out := make([]Result, 0, len(f.latest))
	for _, c := range Categories {
		if r, ok := f.latest[c]; ok {
			out = append(out, r)
		}
	}
	return out
}

// Latest returns the result held for a category.
func (f *Footprint) Latest(c Category) (Result, bool) {
	r, ok := f.latest[c]
	return r, ok
}
