// pkg/engine/column.go
package engine

import (
	"github.com/pkg/errors"

	"reldb/pkg/types"
)

// Column is a typed, append-only vector of values with schema metadata
// (§3). Numeric columns default max_len_of_value to 10, BOOL to 5, when the
// caller passes 0; VARCHAR is required to carry an explicit positive size
// by the parser, so it never reaches here as 0.
type Column struct {
	dataType  types.DataType
	maxLen    int
	isPrimary bool
	notNull   bool
	values    []types.Value
}

// NewColumn constructs an empty column of the given type.
func NewColumn(dataType types.DataType, maxLen int, notNull bool) *Column {
	c := &Column{dataType: dataType, maxLen: maxLen, notNull: notNull}
	if maxLen == 0 {
		switch dataType {
		case types.Int, types.Double, types.Float:
			c.maxLen = 10
		case types.Bool:
			c.maxLen = 5
		}
	}
	return c
}

func (c *Column) Type() types.DataType { return c.dataType }
func (c *Column) MaxLen() int          { return c.maxLen }
func (c *Column) IsPrimary() bool      { return c.isPrimary }
func (c *Column) NotNull() bool        { return c.notNull }
func (c *Column) Size() int            { return len(c.values) }

// SetPrimary marks or unmarks this column as the table's primary key.
func (c *Column) SetPrimary(isPrimary bool) { c.isPrimary = isPrimary }

// SetNotNull changes the column's nullability.
func (c *Column) SetNotNull(notNull bool) { c.notNull = notNull }

// At returns the value stored at row i.
func (c *Column) At(i int) types.Value { return c.values[i] }

// PushValue appends a value without any validation, used when loading
// trusted data from the persisted catalog or composing join output.
func (c *Column) PushValue(v types.Value) { c.values = append(c.values, v) }

// checkUniqueAgainst reports an error if this column is primary and already
// holds a value equal to v among the rows listed in exclude (nil excludes
// none).
func (c *Column) checkUniqueAgainst(raw string, v types.Value, exclude map[int]bool) error {
	if !c.isPrimary {
		return nil
	}
	for i, w := range c.values {
		if exclude != nil && exclude[i] {
			continue
		}
		if w.Equal(v) {
			return errors.Errorf(" Primary key '%s' already exists", raw)
		}
	}
	return nil
}

// parseEmplace validates raw against this column's constraints and returns
// the Value it would store, without mutating the column. Splitting
// validation from the append lets Table.CreateRow validate every column
// before committing any of them (§9 open question 2).
func (c *Column) parseEmplace(raw string) (types.Value, error) {
	if len(raw) > c.maxLen {
		return types.Value{}, errors.New("Invalid value")
	}
	if raw == "NULL" {
		if c.notNull {
			return types.Value{}, errors.New("Invalid value")
		}
		return types.Null(), nil
	}
	v, err := types.Cast(raw, c.dataType)
	if err != nil {
		return types.Value{}, err
	}
	if err := c.checkUniqueAgainst(raw, v, nil); err != nil {
		return types.Value{}, err
	}
	return v, nil
}

// EmplaceValue parses and appends raw in a single step, applying the same
// checks as parseEmplace.
func (c *Column) EmplaceValue(raw string) error {
	v, err := c.parseEmplace(raw)
	if err != nil {
		return err
	}
	c.values = append(c.values, v)
	return nil
}

// Select produces a new Column holding the values at idx, preserving
// metadata (§4.5).
func (c *Column) Select(idx []int) *Column {
	res := &Column{dataType: c.dataType, maxLen: c.maxLen, isPrimary: c.isPrimary, notNull: c.notNull}
	res.values = make([]types.Value, len(idx))
	for i, at := range idx {
		res.values[i] = c.values[at]
	}
	return res
}

// Update overwrites the rows listed in idx with the value parsed from raw,
// re-checking primary-key uniqueness against the rows NOT being updated and
// refusing to give one key value to several rows (§9 open question 8). A
// non-NULL raw longer than max_len_of_value fails with "Invalid value".
func (c *Column) Update(idx []int, raw string) error {
	var v types.Value
	if raw == "NULL" {
		if c.notNull {
			return errors.New("Invalid value")
		}
		v = types.Null()
	} else {
		if len(raw) > c.maxLen {
			return errors.New("Invalid value")
		}
		var err error
		v, err = types.Cast(raw, c.dataType)
		if err != nil {
			return err
		}
		if c.isPrimary && len(idx) > 1 {
			return errors.Errorf(" Primary key '%s' already exists", raw)
		}
		excluded := make(map[int]bool, len(idx))
		for _, i := range idx {
			excluded[i] = true
		}
		if err := c.checkUniqueAgainst(raw, v, excluded); err != nil {
			return err
		}
	}
	for _, i := range idx {
		c.values[i] = v
	}
	return nil
}

// Delete removes the rows listed in idx, which the caller must supply in
// ascending order; it removes from highest to lowest to keep earlier
// indices stable during the shift (§4.5).
func (c *Column) Delete(idx []int) {
	for i := len(idx) - 1; i >= 0; i-- {
		at := idx[i]
		c.values = append(c.values[:at], c.values[at+1:]...)
	}
}

// DeleteAll empties the column.
func (c *Column) DeleteAll() { c.values = nil }
