package stats

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// TagMap is a histogram with integer keys.
type TagMap map[int]int

// Update adds all counts from another TagMap instance.
func (tm TagMap) Update(other TagMap) {
	for k, v := range other {
		tm[k] += v
	}
}

// Total returns the sum of all counts in the TagMap
func (tm TagMap) Total() (sum int) {
	for _, v := range tm {
		sum += v
	}
	return
}

// Keys returns the keys of the TagMap in ascending order.
func (tm TagMap) Keys() []int {
	keys := maps.Keys(tm)
	slices.Sort(keys)
	return keys
}

// Series returns the counts for every key between the smallest and the
// largest one, filling missing keys with zero.
func (tm TagMap) Series() []float64 {
	keys := tm.Keys()
	if len(keys) == 0 {
		return nil
	}
	lo, hi := keys[0], keys[len(keys)-1]
	series := make([]float64, hi-lo+1)
	for k, v := range tm {
		series[k-lo] = float64(v)
	}
	return series
}

// MarshalJSON returns a JSON representation of a TagMap, numerically sorting the keys.
func (tm TagMap) MarshalJSON() ([]byte, error) {
	buf := &bytes.Buffer{}
	buf.WriteByte('{')
	for i, k := range tm.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		fmt.Fprintf(buf, "\"%d\":%d", k, tm[k])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON parses a JSON representation of a TagMap.
func (tm *TagMap) UnmarshalJSON(b []byte) error {
	smap := make(map[string]int)
	if err := json.Unmarshal(b, &smap); err != nil {
		return err
	}
	imap := make(TagMap, len(smap))
	for key, value := range smap {
		// JSON object keys are strings
		intKey, err := strconv.Atoi(key)
		if err != nil {
			return err
		}
		imap[intKey] = value
	}
	*tm = imap
	return nil
}
