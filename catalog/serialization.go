// Copyright 2025 MMG Tools
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package catalog

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// IDMUS serializes IDs in MUS format.
var IDMUS = idMUS{}

type idMUS struct{}

func (idMUS) Marshal(id ID, bs []byte) int {
	return varint.Uint64.Marshal(uint64(id), bs)
}

func (idMUS) Unmarshal(bs []byte) (ID, int, error) {
	v, n, err := varint.Uint64.Unmarshal(bs)
	return ID(v), n, err
}

func (idMUS) Size(id ID) int {
	return varint.Uint64.Size(uint64(id))
}

// timeMUS serializes times as Unix seconds plus nanoseconds.
var timeMUS = timeSer{}

type timeSer struct{}

func (timeSer) Marshal(t time.Time, bs []byte) (n int) {
	n = varint.Int64.Marshal(t.Unix(), bs)
	n += varint.Int64.Marshal(int64(t.Nanosecond()), bs[n:])
	return n
}

func (timeSer) Unmarshal(bs []byte) (t time.Time, n int, err error) {
	sec, n, err := varint.Int64.Unmarshal(bs)
	if err != nil {
		return
	}
	nsec, n1, err := varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	return time.Unix(sec, nsec).UTC(), n, nil
}

func (timeSer) Size(t time.Time) int {
	return varint.Int64.Size(t.Unix()) + varint.Int64.Size(int64(t.Nanosecond()))
}

// RecordMUS serializes Records in MUS format. Metadata keys are written
// in sorted order so equal records marshal to equal bytes.
var RecordMUS = recordMUS{}

type recordMUS struct{}

func (recordMUS) Marshal(r Record, bs []byte) (n int) {
	n = IDMUS.Marshal(r.Id, bs)
	n += ord.String.Marshal(r.Path, bs[n:])
	n += varint.Int64.Marshal(r.ScanNumber, bs[n:])
	n += varint.Int.Marshal(len(r.Metadata), bs[n:])
	for _, key := range slices.Sorted(maps.Keys(r.Metadata)) {
		n += ord.String.Marshal(key, bs[n:])
		n += ord.String.Marshal(r.Metadata[key], bs[n:])
	}
	n += timeMUS.Marshal(r.IngestedAt, bs[n:])
	n += timeMUS.Marshal(r.UpdatedAt, bs[n:])
	n += timeMUS.Marshal(r.FileModTime, bs[n:])
	return n
}

func (recordMUS) Unmarshal(bs []byte) (r Record, n int, err error) {
	r.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	r.Path, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	r.ScanNumber, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var count int
	count, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	if count < 0 {
		err = fmt.Errorf("%w: negative metadata count %d", ErrSerializationFailed, count)
		return
	}
	if count > 0 {
		r.Metadata = make(map[string]string, count)
		for range count {
			var key, value string
			key, n1, err = ord.String.Unmarshal(bs[n:])
			n += n1
			if err != nil {
				return
			}
			value, n1, err = ord.String.Unmarshal(bs[n:])
			n += n1
			if err != nil {
				return
			}
			r.Metadata[key] = value
		}
	}
	r.IngestedAt, n1, err = timeMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	r.UpdatedAt, n1, err = timeMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	r.FileModTime, n1, err = timeMUS.Unmarshal(bs[n:])
	n += n1
	return
}

func (recordMUS) Size(r Record) (size int) {
	size = IDMUS.Size(r.Id)
	size += ord.String.Size(r.Path)
	size += varint.Int64.Size(r.ScanNumber)
	size += varint.Int.Size(len(r.Metadata))
	for key, value := range r.Metadata {
		size += ord.String.Size(key)
		size += ord.String.Size(value)
	}
	size += timeMUS.Size(r.IngestedAt)
	size += timeMUS.Size(r.UpdatedAt)
	size += timeMUS.Size(r.FileModTime)
	return size
}

// MarshalID serializes an ID to bytes.
func MarshalID(id ID) []byte {
	buf := make([]byte, IDMUS.Size(id))
	IDMUS.Marshal(id, buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (ID, error) {
	id, _, err := IDMUS.Unmarshal(data)
	return id, err
}

// MarshalRecord serializes a Record to bytes.
func MarshalRecord(record *Record) []byte {
	buf := make([]byte, RecordMUS.Size(*record))
	RecordMUS.Marshal(*record, buf)
	return buf
}

// UnmarshalRecord deserializes a Record from bytes.
func UnmarshalRecord(data []byte) (*Record, error) {
	record, _, err := RecordMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &record, nil
}
