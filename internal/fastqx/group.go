// group.go implements group_by: partitioning a Data/View by a tuple of
// key columns into a Group, which supports the same read-style operation
// surface (agg/apply/count/first/last/head/tail/min/max/sum/mean/
// n_unique/all/map_groups) per partition, reassembling into a Data.
//
// Grounded on the teacher's GroupedDataFrame (internal/dataframe/
// dataframe.go), generalised from a single grouping column and a
// string-keyed map to an arbitrary key-column tuple keyed by
// value.Value.EncodeKey, and from panicking on a missing column to
// returning an UnknownColumn error.
package fastqx

import (
	"fastqx/internal/errors"
	"fastqx/internal/row"
	"fastqx/internal/value"
)

// Group is a mapping from a key vector to a sub-Data (eager) or a
// reference into the parent (lazy). Key order follows first-encounter
// order in the parent, per spec.
type Group struct {
	parent    Reader
	keyCols   []int
	keyNames  []string
	order     []string           // key strings, encounter order
	keyRow    map[string]row.Row // representative key vector per key string
	indices   map[string][]int   // row positions in parent, per key string
	eager     bool
	eagerData map[string]*Data // populated only when eager
}

// GroupBy partitions d by the tuple of values at the named columns,
// eagerly: each partition is its own independently-owned Data sharing
// d's header. Unknown column names report UnknownColumn.
func GroupBy(d Reader, keys []string) (*Group, error) {
	g, err := groupByLazy(d, keys)
	if err != nil {
		return nil, err
	}
	return g.ToEager()
}

// GroupByLazy partitions d the same way but keeps only a reference to
// the parent plus index vectors; partitions are materialised on demand.
func GroupByLazy(d Reader, keys []string) (*Group, error) {
	return groupByLazy(d, keys)
}

func groupByLazy(d Reader, keys []string) (*Group, error) {
	keyCols := make([]int, len(keys))
	for i, name := range keys {
		pos, ok := d.ColIndex(name)
		if !ok {
			return nil, errors.NewUnknownColumn(name)
		}
		keyCols[i] = pos
	}
	g := &Group{
		parent:   d,
		keyCols:  keyCols,
		keyNames: append([]string(nil), keys...),
		keyRow:   make(map[string]row.Row),
		indices:  make(map[string][]int),
	}
	for i := 0; i < d.Height(); i++ {
		r, err := d.RowAt(i)
		if err != nil {
			return nil, err
		}
		keyStr, err := r.GroupKey(keyCols)
		if err != nil {
			return nil, err
		}
		if _, seen := g.keyRow[keyStr]; !seen {
			keySel, _ := r.Select(keyCols)
			g.keyRow[keyStr] = keySel
			g.order = append(g.order, keyStr)
		}
		g.indices[keyStr] = append(g.indices[keyStr], i)
	}
	return g, nil
}

// ToEager materialises every partition as its own owned Data.
func (g *Group) ToEager() (*Group, error) {
	if g.eager {
		return g, nil
	}
	out := *g
	out.eager = true
	out.eagerData = make(map[string]*Data, len(g.order))
	cols := g.parent.Columns()
	types := g.parent.Types()
	for _, key := range g.order {
		rows := make([]row.Row, len(g.indices[key]))
		for i, idx := range g.indices[key] {
			r, err := g.parent.RowAt(idx)
			if err != nil {
				return nil, err
			}
			rows[i] = r.Clone()
		}
		out.eagerData[key] = NewUnchecked(cols, types, rows)
	}
	return &out, nil
}

// Keys returns the key vectors in partition-discovery order.
func (g *Group) Keys() []row.Row {
	out := make([]row.Row, len(g.order))
	for i, k := range g.order {
		out[i] = g.keyRow[k]
	}
	return out
}

// KeyNames returns the grouping column names.
func (g *Group) KeyNames() []string { return append([]string(nil), g.keyNames...) }

// Len returns the number of partitions.
func (g *Group) Len() int { return len(g.order) }

// Partition returns the sub-Data for the i-th key (in discovery order).
func (g *Group) Partition(i int) (*Data, error) {
	if i < 0 || i >= len(g.order) {
		return nil, errors.NewIndexOutOfRange("group index %d out of range [0,%d)", i, len(g.order))
	}
	key := g.order[i]
	if g.eager {
		return g.eagerData[key], nil
	}
	cols := g.parent.Columns()
	types := g.parent.Types()
	idxs := g.indices[key]
	rows := make([]row.Row, len(idxs))
	for j, idx := range idxs {
		r, err := g.parent.RowAt(idx)
		if err != nil {
			return nil, err
		}
		rows[j] = r.Clone()
	}
	return NewUnchecked(cols, types, rows), nil
}

// valueColumns returns the non-key column names/types, in their original
// order, used to build the header of aggregate results that drop the key
// columns from their own per-partition row (Sum/Min/Max/Mean operate on
// the *whole* partition row, keys included, so callers trim).
func (g *Group) valueColumns() (names []string, types []value.ValueType, positions []int) {
	allNames := g.parent.Columns()
	allTypes := g.parent.Types()
	isKey := make(map[int]bool, len(g.keyCols))
	for _, c := range g.keyCols {
		isKey[c] = true
	}
	for i, name := range allNames {
		if isKey[i] {
			continue
		}
		names = append(names, name)
		types = append(types, allTypes[i])
		positions = append(positions, i)
	}
	return
}

// forEachPartition runs agg against every partition in discovery order,
// propagating the first partition error and aborting the rest, per spec.
func (g *Group) forEachPartition(agg func(Reader) (row.Row, bool, error)) ([]row.Row, error) {
	out := make([]row.Row, 0, len(g.order))
	for i := range g.order {
		p, err := g.Partition(i)
		if err != nil {
			return nil, err
		}
		r, ok, err := agg(p)
		if err != nil {
			return nil, err
		}
		if !ok {
			r = make(row.Row, p.Width())
			for j := range r {
				r[j] = value.NewNull()
			}
		}
		out = append(out, r)
	}
	return out, nil
}

func (g *Group) assembleValueAgg(results []row.Row) *Data {
	valueNames, valueTypes, positions := g.valueColumns()
	keys := g.Keys()
	outCols := append(append([]string(nil), g.keyNames...), valueNames...)
	parentTypes := g.parent.Types()
	outTypes := make([]value.ValueType, 0, len(outCols))
	for _, c := range g.keyCols {
		outTypes = append(outTypes, parentTypes[c])
	}
	outTypes = append(outTypes, valueTypes...)
	rows := make([]row.Row, len(keys))
	for i, k := range keys {
		trimmed, _ := results[i].Select(positions)
		rows[i] = k.Append(trimmed)
	}
	return NewUnchecked(outCols, outTypes, rows)
}

// Sum, Min, Max, Mean aggregate every non-key column per partition and
// reassemble a Data keyed by the grouping columns.
func (g *Group) Sum() (*Data, error) {
	results, err := g.forEachPartition(Sum)
	if err != nil {
		return nil, err
	}
	return g.assembleValueAgg(results), nil
}

func (g *Group) Min() (*Data, error) {
	results, err := g.forEachPartition(Min)
	if err != nil {
		return nil, err
	}
	return g.assembleValueAgg(results), nil
}

func (g *Group) Max() (*Data, error) {
	results, err := g.forEachPartition(Max)
	if err != nil {
		return nil, err
	}
	return g.assembleValueAgg(results), nil
}

func (g *Group) Mean() (*Data, error) {
	results, err := g.forEachPartition(Mean)
	if err != nil {
		return nil, err
	}
	// Mean widens every numeric column to F64; value column types must
	// reflect that rather than the source column's own type.
	valueNames, _, positions := g.valueColumns()
	keys := g.Keys()
	outCols := append(append([]string(nil), g.keyNames...), valueNames...)
	parentTypes := g.parent.Types()
	outTypes := make([]value.ValueType, 0, len(outCols))
	for _, c := range g.keyCols {
		outTypes = append(outTypes, parentTypes[c])
	}
	for range valueNames {
		outTypes = append(outTypes, value.F64)
	}
	rows := make([]row.Row, len(keys))
	for i, k := range keys {
		trimmed, _ := results[i].Select(positions)
		rows[i] = k.Append(trimmed)
	}
	return NewUnchecked(outCols, outTypes, rows), nil
}

// Count returns one row per partition: the key columns plus a "count"
// column (I64).
func (g *Group) Count() *Data {
	keys := g.Keys()
	outCols := append(append([]string(nil), g.keyNames...), "count")
	parentTypes := g.parent.Types()
	outTypes := make([]value.ValueType, 0, len(outCols))
	for _, c := range g.keyCols {
		outTypes = append(outTypes, parentTypes[c])
	}
	outTypes = append(outTypes, value.I64)
	rows := make([]row.Row, len(g.order))
	for i, key := range g.order {
		n := len(g.indices[key])
		if g.eager {
			n = g.eagerData[key].Height()
		}
		rows[i] = keys[i].Append(row.New(value.NewI64(int64(n))))
	}
	return NewUnchecked(outCols, outTypes, rows)
}

// First and Last return, per partition, the first/last row (full width,
// key columns included).
func (g *Group) First() (*Data, error) {
	return g.edge(func(p *Data) (row.Row, error) { return p.RowAt(0) })
}

func (g *Group) Last() (*Data, error) {
	return g.edge(func(p *Data) (row.Row, error) { return p.RowAt(p.Height() - 1) })
}

func (g *Group) edge(pick func(*Data) (row.Row, error)) (*Data, error) {
	rows := make([]row.Row, 0, len(g.order))
	for i := range g.order {
		p, err := g.Partition(i)
		if err != nil {
			return nil, err
		}
		if p.Height() == 0 {
			continue
		}
		r, err := pick(p)
		if err != nil {
			return nil, err
		}
		rows = append(rows, r.Clone())
	}
	return NewUnchecked(g.parent.Columns(), g.parent.Types(), rows), nil
}

// Head and Tail concatenate the first/last n rows of every partition, in
// partition-discovery order, full width.
func (g *Group) Head(n int) (*Data, error) { return g.headTail(n, true) }
func (g *Group) Tail(n int) (*Data, error) { return g.headTail(n, false) }

func (g *Group) headTail(n int, head bool) (*Data, error) {
	var rows []row.Row
	for i := range g.order {
		p, err := g.Partition(i)
		if err != nil {
			return nil, err
		}
		take := n
		if take > p.Height() {
			take = p.Height()
		}
		lo, hi := 0, take
		if !head {
			lo, hi = p.Height()-take, p.Height()
		}
		for r := lo; r < hi; r++ {
			row_, err := p.RowAt(r)
			if err != nil {
				return nil, err
			}
			rows = append(rows, row_.Clone())
		}
	}
	return NewUnchecked(g.parent.Columns(), g.parent.Types(), rows), nil
}

// NUnique counts distinct values of col within each partition.
func (g *Group) NUnique(col string) (*Data, error) {
	colSel, err := ColumnByName(g.parent, col)
	if err != nil {
		return nil, err
	}
	keys := g.Keys()
	outCols := append(append([]string(nil), g.keyNames...), "n_unique")
	parentTypes := g.parent.Types()
	outTypes := make([]value.ValueType, 0, len(outCols))
	for _, c := range g.keyCols {
		outTypes = append(outTypes, parentTypes[c])
	}
	outTypes = append(outTypes, value.I64)
	rows := make([]row.Row, len(g.order))
	for i := range g.order {
		p, err := g.Partition(i)
		if err != nil {
			return nil, err
		}
		n, err := NUnique(p, colSel)
		if err != nil {
			return nil, err
		}
		rows[i] = keys[i].Append(row.New(value.NewI64(int64(n))))
	}
	return NewUnchecked(outCols, outTypes, rows), nil
}

// All reports whether p holds for every row of every partition.
func (g *Group) All(p func(row.Row) bool) (bool, error) {
	for i := range g.order {
		part, err := g.Partition(i)
		if err != nil {
			return false, err
		}
		for j := 0; j < part.Height(); j++ {
			r, err := part.RowAt(j)
			if err != nil {
				return false, err
			}
			if !p(r) {
				return false, nil
			}
		}
	}
	return true, nil
}

// Apply runs f against every partition and concatenates the results; the
// first partition error aborts the remaining partitions.
func (g *Group) Apply(f func(*Data) (*Data, error)) (*Data, error) {
	var header *Data
	var rows []row.Row
	for i := range g.order {
		p, err := g.Partition(i)
		if err != nil {
			return nil, err
		}
		res, err := f(p)
		if err != nil {
			return nil, err
		}
		if header == nil {
			header = NewUnchecked(res.Columns(), res.Types(), nil)
		}
		rows = append(rows, res.RowsSlice()...)
	}
	if header == nil {
		return NewUnchecked(g.parent.Columns(), g.parent.Types(), nil), nil
	}
	return NewUnchecked(header.Columns(), header.Types(), rows), nil
}

// MapGroups is an alias for Apply, matching the spec's naming.
func (g *Group) MapGroups(f func(*Data) (*Data, error)) (*Data, error) { return g.Apply(f) }

// Agg runs an arbitrary per-partition row-producing aggregate over the
// whole partition row (key columns included) and reassembles a Data
// whose header is the key columns followed by valueCols/valueTypes.
func (g *Group) Agg(valueCols []string, valueTypes []value.ValueType, agg func(*Data) (row.Row, error)) (*Data, error) {
	rows := make([]row.Row, 0, len(g.order))
	keys := g.Keys()
	for i := range g.order {
		p, err := g.Partition(i)
		if err != nil {
			return nil, err
		}
		r, err := agg(p)
		if err != nil {
			return nil, err
		}
		rows = append(rows, keys[i].Append(r))
	}
	outCols := append(append([]string(nil), g.keyNames...), valueCols...)
	parentTypes := g.parent.Types()
	outTypes := make([]value.ValueType, 0, len(outCols))
	for _, c := range g.keyCols {
		outTypes = append(outTypes, parentTypes[c])
	}
	outTypes = append(outTypes, valueTypes...)
	return NewUnchecked(outCols, outTypes, rows), nil
}
