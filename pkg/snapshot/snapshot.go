package snapshot

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"
)

// BucketSize is the width of one sample bucket.
const BucketSize = 15 * time.Minute

// ErrNoData is returned when a day has no samples.
var ErrNoData = errors.New("no samples for day")

// LineSample carries the per-segment transit times of one line.
type LineSample struct {
	Line    string             `json:"line,omitempty"`
	Transit map[string]float64 `json:"delay_actual"`
}

// Sample is one 15 minute bucket of a day.
type Sample struct {
	Day          int                `json:"day"`
	SecOfDay     float64            `json:"secOfDay"`
	Entries      map[string]float64 `json:"ins"`
	EntriesTotal float64            `json:"ins_total"`
	Delay        float64            `json:"delay_actual"`
	Lines        []LineSample       `json:"lines"`
}

// Transit merges the transit times of all lines, keyed by segment key.
// Later lines win on duplicate keys.
func (s Sample) Transit() map[string]float64 {
	out := make(map[string]float64)
	for _, l := range s.Lines {
		for k, v := range l.Transit {
			out[k] = v
		}
	}
	return out
}

// Medians maps a segment key to its median transit time in seconds.
type Medians map[string]float64

// Series groups samples by day, each day sorted by time.
type Series struct {
	days map[int][]Sample
}

// NewSeries groups samples by day. The input is not modified.
func NewSeries(samples []Sample) *Series {
	s := &Series{days: make(map[int][]Sample)}
	for _, smp := range samples {
		s.days[smp.Day] = append(s.days[smp.Day], smp)
	}
	for _, day := range s.days {
		sort.SliceStable(day, func(i, j int) bool { return day[i].SecOfDay < day[j].SecOfDay })
	}
	return s
}

// Days returns the days that have samples, ascending.
func (s *Series) Days() []int {
	out := make([]int, 0, len(s.days))
	for d := range s.days {
		out = append(out, d)
	}
	sort.Ints(out)
	return out
}

// Day returns the sorted samples of day.
func (s *Series) Day(day int) []Sample { return s.days[day] }

// Len returns the total number of samples.
func (s *Series) Len() int {
	n := 0
	for _, d := range s.days {
		n += len(d)
	}
	return n
}

// Snapshot is the interpolated state at one moment.
type Snapshot struct {
	Day          int                `json:"day"`
	Time         time.Duration      `json:"time"`
	Entries      map[string]float64 `json:"entries"`
	EntriesTotal float64            `json:"entries_total"`
	Delay        float64            `json:"delay"`
	Transit      map[string]float64 `json:"transit"`
}

// At interpolates the samples of day at time of day tod. The bucket that
// ends at tod and the one after it are blended by the position of tod within
// its bucket; when only one of them exists it is used as is.
func (s *Series) At(day int, tod time.Duration) (Snapshot, error) {
	data := s.days[day]
	if len(data) == 0 {
		return Snapshot{}, fmt.Errorf("day %d: %w", day, ErrNoData)
	}

	ms := float64(tod.Milliseconds())
	target := ms/1000 - BucketSize.Seconds()
	idx := sort.Search(len(data), func(i int) bool { return data[i].SecOfDay >= target }) - 1

	bucket := float64(BucketSize.Milliseconds())
	ratio := math.Max(0, math.Min(1, math.Mod(ms-1, bucket)/bucket))

	var before Sample
	if idx >= 0 {
		before = data[idx]
	} else {
		before = data[idx+1]
	}
	after := before
	if idx+1 < len(data) {
		after = data[idx+1]
	}

	return Snapshot{
		Day:          day,
		Time:         tod,
		Entries:      blend(before.Entries, after.Entries, ratio),
		EntriesTotal: lerp(before.EntriesTotal, after.EntriesTotal, ratio),
		Delay:        lerp(before.Delay, after.Delay, ratio),
		Transit:      blend(before.Transit(), after.Transit(), ratio),
	}, nil
}

// Speeds returns median / actual transit time for each key that has both.
// A nil keys selects every key with a transit sample.
func (s Snapshot) Speeds(medians Medians, keys []string) map[string]float64 {
	if keys == nil {
		keys = make([]string, 0, len(s.Transit))
		for k := range s.Transit {
			keys = append(keys, k)
		}
	}
	out := make(map[string]float64, len(keys))
	for _, k := range keys {
		actual, ok := s.Transit[k]
		if !ok || actual <= 0 {
			continue
		}
		median, ok := medians[k]
		if !ok {
			continue
		}
		out[k] = median / actual
	}
	return out
}

// DelayLabel describes the network-wide delay, for example "12% slow".
func (s Snapshot) DelayLabel() string {
	if s.Delay < 0 {
		return fmt.Sprintf("%.0f%% fast", -s.Delay*100)
	}
	return fmt.Sprintf("%.0f%% slow", s.Delay*100)
}

// EntriesLabel describes the total entry rate.
func (s Snapshot) EntriesLabel() string {
	return fmt.Sprintf("%.0f entries/min", s.EntriesTotal)
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }

// blend interpolates every key present in both maps and copies keys present
// in only one.
func blend(a, b map[string]float64, t float64) map[string]float64 {
	out := make(map[string]float64, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		if av, ok := a[k]; ok {
			out[k] = lerp(av, v, t)
		} else {
			out[k] = v
		}
	}
	return out
}
