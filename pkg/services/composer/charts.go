package composer

import (
	"slices"
	"sort"
	"time"

	"github.com/de-tools/salespulse/pkg/models/domain"
)

type measure func(domain.SalesRecord) float64

func byValue(r domain.SalesRecord) float64  { return r.Value }
func byVolume(r domain.SalesRecord) float64 { return r.Volume }

func bucketStart(b domain.Bucket) func(time.Time) time.Time {
	if b == domain.BucketQuarter {
		return domain.QuarterStart
	}
	return domain.MonthStart
}

// timeSeries sums m per bucket and per value of the group key. Every series
// carries a point for every bucket present in rows, zero when the group had
// no sales there.
func timeSeries(rows []domain.SalesRecord, bucket domain.Bucket, group domain.FilterKey, m measure) []domain.Series {
	if len(rows) == 0 {
		return nil
	}
	start := bucketStart(bucket)

	sums := make(map[string]map[time.Time]float64)
	seen := make(map[time.Time]struct{})
	for _, r := range rows {
		name := r.Dimension(group)
		at := start(r.Period)
		if sums[name] == nil {
			sums[name] = make(map[time.Time]float64)
		}
		sums[name][at] += m(r)
		seen[at] = struct{}{}
	}

	buckets := make([]time.Time, 0, len(seen))
	for at := range seen {
		buckets = append(buckets, at)
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Before(buckets[j]) })

	names := make([]string, 0, len(sums))
	for name := range sums {
		names = append(names, name)
	}

	series := make([]domain.Series, 0, len(names))
	for _, name := range orderLabels(group, names) {
		points := make([]domain.Point, len(buckets))
		for i, at := range buckets {
			points[i] = domain.Point{Date: at, Value: sums[name][at]}
		}
		series = append(series, domain.Series{Name: name, Points: points})
	}
	return series
}

// shareOfBucket rewrites every point as its percentage of the bucket total
// across all series.
func shareOfBucket(series []domain.Series) []domain.Series {
	if len(series) == 0 {
		return series
	}
	n := len(series[0].Points)
	bucketTotals := make([]float64, n)
	for _, s := range series {
		for i, p := range s.Points {
			bucketTotals[i] += p.Value
		}
	}
	out := make([]domain.Series, len(series))
	for si, s := range series {
		points := make([]domain.Point, n)
		for i, p := range s.Points {
			points[i] = domain.Point{Date: p.Date, Value: percent(p.Value, bucketTotals[i])}
		}
		out[si] = domain.Series{Name: s.Name, Points: points}
	}
	return out
}

// breakdown sums m per value of key and expresses each as a share of the
// total. Declared members of key come first in enumeration order, including
// those without sales; a zero total yields no slices.
func breakdown(rows []domain.SalesRecord, key domain.FilterKey, m measure) []domain.Slice {
	sums := make(map[string]float64)
	var total float64
	for _, r := range rows {
		v := m(r)
		sums[r.Dimension(key)] += v
		total += v
	}
	if total == 0 {
		return nil
	}

	labels := key.Members()
	for label := range sums {
		if !slices.Contains(labels, label) {
			labels = append(labels, label)
		}
	}

	ordered := orderLabels(key, labels)
	out := make([]domain.Slice, 0, len(ordered))
	for _, label := range ordered {
		out = append(out, domain.Slice{
			Label:        label,
			Value:        sums[label],
			SharePercent: percent(sums[label], total),
		})
	}
	return out
}

// orderLabels sorts labels by the key's enumeration, then anything
// undeclared alphabetically.
func orderLabels(key domain.FilterKey, labels []string) []string {
	members := key.Members()
	rank := func(label string) int {
		if i := slices.Index(members, label); i >= 0 {
			return i
		}
		return len(members)
	}
	out := slices.Clone(labels)
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := rank(out[i]), rank(out[j])
		if ri != rj {
			return ri < rj
		}
		return out[i] < out[j]
	})
	return out
}

func percent(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return part / whole * 100
}
