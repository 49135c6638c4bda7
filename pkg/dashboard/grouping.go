/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package dashboard

import (
	"sort"
	"time"

	"github.com/carverauto/kioskradar/pkg/models"
)

// UnknownBucket is the bucket key for devices without a parseable
// timestamp. It always sorts after every dated bucket.
const UnknownBucket = "unknown"

// bucketLayout formats a device timestamp into its calendar-day bucket
// key. Lexical order on these keys matches chronological order.
const bucketLayout = "2006-01-02"

// DeviceEntry is one device inside a bucket. Value keeps the raw node so
// scalar-valued devices can still label their button.
type DeviceEntry struct {
	ID    string
	Value models.Node
	Time  time.Time
}

// Bucket is one calendar day of devices, newest device first.
type Bucket struct {
	Key     string
	Devices []DeviceEntry
}

// GroupDevices splits a device record into calendar-day buckets. Buckets
// are ordered newest day first with the unknown bucket always last;
// devices inside a bucket are ordered newest first, ties keeping their
// lexical ID order. The result is fully determined by the input, so
// re-rendering an unchanged record reproduces the same screen.
func GroupDevices(devices models.Record) []Bucket {
	ids := make([]string, 0, len(devices))
	for id := range devices {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	groups := make(map[string][]DeviceEntry)
	for _, id := range ids {
		var when time.Time
		if record, ok := models.AsRecord(devices[id]); ok {
			when, _ = models.DeviceTime(record)
		}

		key := UnknownBucket
		if !when.IsZero() {
			key = when.Format(bucketLayout)
		}

		groups[key] = append(groups[key], DeviceEntry{ID: id, Value: devices[id], Time: when})
	}

	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}

	sort.Slice(keys, func(i, j int) bool {
		return bucketBefore(keys[i], keys[j])
	})

	buckets := make([]Bucket, 0, len(keys))

	for _, key := range keys {
		entries := groups[key]
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Time.After(entries[j].Time)
		})

		buckets = append(buckets, Bucket{Key: key, Devices: entries})
	}

	return buckets
}

// bucketBefore reports whether bucket key a precedes b in display order:
// descending by date, unknown strictly last.
func bucketBefore(a, b string) bool {
	if a == UnknownBucket {
		return false
	}

	if b == UnknownBucket {
		return true
	}

	return a > b
}

// SelectBucket resolves a requested bucket key against the available
// buckets, falling back to the newest one when the request is empty or no
// longer exists. The caller must ensure buckets is non-empty.
func SelectBucket(buckets []Bucket, requested string) int {
	if requested != "" {
		for i, bucket := range buckets {
			if bucket.Key == requested {
				return i
			}
		}
	}

	return 0
}
