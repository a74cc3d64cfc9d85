// Copyright (c) 2021 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

// Bucket is a key prefix that carves a namespace out of a shared store.
type Bucket string

func (b Bucket) key(key []byte) []byte {
	// a fresh slice every time, batches keep the keys they are given
	k := make([]byte, 0, len(b)+len(key))
	return append(append(k, b...), key...)
}

// NewGetter returns a getter reading only the keys of bucket b.
func (b Bucket) NewGetter(src Getter) Getter {
	return &struct {
		GetFunc
		HasFunc
		IsNotFoundFunc
	}{
		func(key []byte) ([]byte, error) { return src.Get(b.key(key)) },
		func(key []byte) (bool, error) { return src.Has(b.key(key)) },
		src.IsNotFound,
	}
}

// NewPutter returns a putter writing only the keys of bucket b.
func (b Bucket) NewPutter(src Putter) Putter {
	return &struct {
		PutFunc
		DeleteFunc
	}{
		func(key, val []byte) error { return src.Put(b.key(key), val) },
		func(key []byte) error { return src.Delete(b.key(key)) },
	}
}

// NewStore returns a store confined to bucket b. Its bulks are bulks of src.
func (b Bucket) NewStore(src Store) Store {
	return &struct {
		Getter
		Putter
		BulkFunc
	}{
		b.NewGetter(src),
		b.NewPutter(src),
		func() Bulk { return b.NewBulk(src.Bulk()) },
	}
}

// NewBulk returns a bulk writing the keys of bucket b into src. Writing it writes src.
func (b Bucket) NewBulk(src Bulk) Bulk {
	return &struct {
		Putter
		LenFunc
		WriteFunc
	}{
		b.NewPutter(src),
		src.Len,
		src.Write,
	}
}
